package model

import "strings"

// StationStatus describes whether a charging station can accept a vehicle.
type StationStatus int

const (
	StatusUnknown StationStatus = iota
	StatusAvailable
	StatusOccupied
)

// String returns the canonical English label.
func (s StationStatus) String() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusOccupied:
		return "Occupied"
	default:
		return "Unknown"
	}
}

// ParseStationStatus maps catalog labels to a status. French labels used by
// the IRVE catalog are accepted alongside English ones.
func ParseStationStatus(label string) StationStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "available", "dispo", "disponible":
		return StatusAvailable
	case "occupied", "occupée", "occupee", "busy":
		return StatusOccupied
	default:
		return StatusUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s StationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StationStatus) UnmarshalText(b []byte) error {
	*s = ParseStationStatus(string(b))
	return nil
}

// Station is an entry of the external charging catalog.
type Station struct {
	Name     string        `json:"name"`
	Operator string        `json:"operator,omitempty"`
	Address  string        `json:"address,omitempty"`
	Position Coordinate    `json:"position"`
	Status   StationStatus `json:"status"`
	// PowerKW is the rated charging power. Zero means unknown.
	PowerKW float64 `json:"power_kw,omitempty"`
	Price   string  `json:"price,omitempty"`
}

// Selectable reports whether the station may be proposed at all: it needs
// finite coordinates and must be available.
func (s Station) Selectable() bool {
	return s.Position.Valid() && s.Status == StatusAvailable
}

// EffectivePowerKW returns PowerKW, or fallback when the rating is missing or
// not a positive finite number.
func (s Station) EffectivePowerKW(fallback float64) float64 {
	if !isFinite(s.PowerKW) || s.PowerKW <= 0 {
		return fallback
	}
	return s.PowerKW
}
