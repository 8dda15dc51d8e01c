package model

// Well-known driving scenarios produced by the route provider.
const (
	ScenarioEco   = "eco"
	ScenarioLimit = "limit"
	ScenarioReal  = "real"
)

// Segment is one leg of a pre-computed route. Energy and Time are keyed by
// scenario name; energy may be negative on regenerative downhill legs.
type Segment struct {
	Index     int                `json:"index" yaml:"index"`
	Start     Coordinate         `json:"start" yaml:"start"`
	End       Coordinate         `json:"end" yaml:"end"`
	DistanceM float64            `json:"distance_m" yaml:"distance_m"`
	Energy    map[string]float64 `json:"energy_kwh" yaml:"energy_kwh"`
	Time      map[string]float64 `json:"time_s" yaml:"time_s"`
}

// EnergyKWh returns the energy consumed under the scenario, 0 when unknown.
func (s Segment) EnergyKWh(scenario string) float64 {
	return s.Energy[scenario]
}

// TimeSeconds returns the travel time under the scenario, 0 when unknown.
func (s Segment) TimeSeconds(scenario string) float64 {
	return s.Time[scenario]
}
