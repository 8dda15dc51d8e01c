package model

// SelectedStation is a catalog station chosen for a stop, with its distance
// from the point the search was made at.
type SelectedStation struct {
	Station
	DistanceKm float64 `json:"distance_km"`
}

// ChargingEvent is one planned charging stop.
type ChargingEvent struct {
	SegmentIndex int             `json:"segment_index"`
	Position     Coordinate      `json:"position"`
	Station      SelectedStation `json:"station"`
	// SoCPct is the state of charge when the stop is reached, in [0,100].
	SoCPct          float64 `json:"soc_pct"`
	EnergyKWh float64 `json:"energy_kwh"`
	// PowerKW is the charging power the duration was computed with: the
	// station rating, or the default when the station has none.
	PowerKW         float64 `json:"power_kw"`
	DurationMinutes float64 `json:"duration_minutes"`
	// Terminal marks the stop added by the arrival check.
	Terminal bool `json:"terminal,omitempty"`
}
