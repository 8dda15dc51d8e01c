package charging

import (
	"math"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/geo"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

// Selector picks the best available station around a point. Power dominates
// the score because it drives total trip time more than a short detour.
type Selector struct {
	Policy         Policy
	DefaultPowerKW float64
}

// NewSelector returns a Selector using the policy and power default of cfg.
func NewSelector(cfg Config) Selector {
	cfg.SetDefaults()
	return Selector{Policy: cfg.Policy, DefaultPowerKW: cfg.DefaultStationPowerKW}
}

// Score rates a station of the given power at distanceKm from the query point.
func (s Selector) Score(powerKW, distanceKm float64) float64 {
	bonus := 0.0
	switch {
	case powerKW > s.Policy.HighPowerKW:
		bonus = s.Policy.HighPowerBonus
	case powerKW > s.Policy.MidPowerKW:
		bonus = s.Policy.MidPowerBonus
	}
	return (powerKW*s.Policy.PowerWeight + bonus) / (distanceKm + 1)
}

// Best returns the highest scoring selectable station within maxDistanceKm of
// point. On equal scores the first station in catalog order wins. The boolean
// is false when nothing qualifies.
func (s Selector) Best(point model.Coordinate, stations []model.Station, maxDistanceKm float64) (model.SelectedStation, bool) {
	var (
		best      model.SelectedStation
		bestScore = math.Inf(-1)
		found     bool
	)
	for _, st := range stations {
		if !st.Selectable() {
			continue
		}
		d := geo.Between(point, st.Position)
		if d > maxDistanceKm {
			continue
		}
		score := s.Score(st.EffectivePowerKW(s.DefaultPowerKW), d)
		if score > bestScore {
			bestScore = score
			best = model.SelectedStation{Station: st, DistanceKm: d}
			found = true
		}
	}
	return best, found
}

// SelectBest runs Best with the default policy.
func SelectBest(point model.Coordinate, stations []model.Station, maxDistanceKm float64) (model.SelectedStation, bool) {
	return NewSelector(DefaultConfig()).Best(point, stations, maxDistanceKm)
}
