package model

import "fmt"

// Vehicle describes the electric vehicle a plan is computed for.
type Vehicle struct {
	ID         string  `json:"id" yaml:"id"`
	BatteryKWh float64 `json:"battery_kwh" yaml:"battery_kwh"`     // total battery capacity in kWh
	StartSoC   float64 `json:"start_soc_pct" yaml:"start_soc_pct"` // state of charge at departure, percent
}

// Validate checks that the vehicle configuration is sound.
// In particular BatteryKWh must be positive.
func (v Vehicle) Validate() error {
	if v.BatteryKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive")
	}
	if v.StartSoC < 0 || v.StartSoC > 100 {
		return fmt.Errorf("start soc %.1f outside [0,100]", v.StartSoC)
	}
	return nil
}
