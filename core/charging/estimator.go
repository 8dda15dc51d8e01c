package charging

// ChargeMinutes converts an energy amount and a charging power into minutes.
// powerKW must be positive; callers resolve missing ratings beforehand.
func ChargeMinutes(energyKWh, powerKW float64) float64 {
	return energyKWh / powerKW * 60
}
