package charging

// Tracker accumulates consumed and added energy over a route. It is a value
// type: Consume and Charge return the next state.
type Tracker struct {
	capacityKWh float64
	startKWh    float64
	consumedKWh float64
	addedKWh    float64
}

// NewTracker starts a tracker for a battery of capacityKWh at startSoCPct.
func NewTracker(capacityKWh, startSoCPct float64) Tracker {
	return Tracker{capacityKWh: capacityKWh, startKWh: capacityKWh * startSoCPct / 100}
}

// Consume records energy drawn by a segment. Negative values are regeneration.
func (t Tracker) Consume(kwh float64) Tracker {
	t.consumedKWh += kwh
	return t
}

// Charge records energy added at a stop.
func (t Tracker) Charge(kwh float64) Tracker {
	t.addedKWh += kwh
	return t
}

// EnergyKWh is the energy currently in the battery. It is not clamped and may
// be negative when the route cannot be driven.
func (t Tracker) EnergyKWh() float64 {
	return t.startKWh - t.consumedKWh + t.addedKWh
}

// SoCPct returns EnergyKWh as a percentage of capacity, clamped to [0,100].
func (t Tracker) SoCPct() float64 {
	if t.capacityKWh <= 0 {
		return 0
	}
	return clamp(t.EnergyKWh()/t.capacityKWh*100, 0, 100)
}

func (t Tracker) StartKWh() float64    { return t.startKWh }
func (t Tracker) ConsumedKWh() float64 { return t.consumedKWh }
func (t Tracker) AddedKWh() float64    { return t.addedKWh }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
