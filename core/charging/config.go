package charging

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultTargetArrivalPct is used when no target is given.
	DefaultTargetArrivalPct = 20.0
	// MinTargetArrivalPct and MaxTargetArrivalPct bound the target to
	// realistic fast-charge levels.
	MinTargetArrivalPct = 20.0
	MaxTargetArrivalPct = 80.0
	// DefaultUsableCapacityFraction models a 20%-80% fast-charge window: the
	// most a single stop can add.
	DefaultUsableCapacityFraction = 0.6
	DefaultMaxDistanceKm          = 80.0
	DefaultStationPowerKW         = 50.0
	// DefaultDedupEpsilonDeg is the lat/lon tolerance under which two stops
	// at the same station are considered the same stop.
	DefaultDedupEpsilonDeg = 0.01
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid planner config")

// Policy holds the station scoring weights. The heuristic is a tunable, not a
// physical model: score = (power*PowerWeight + bonus) / (distance + 1).
type Policy struct {
	PowerWeight    float64 `json:"power_weight"`
	HighPowerKW    float64 `json:"high_power_kw"`
	HighPowerBonus float64 `json:"high_power_bonus"`
	MidPowerKW     float64 `json:"mid_power_kw"`
	MidPowerBonus  float64 `json:"mid_power_bonus"`
}

// DefaultPolicy returns the stock scoring weights.
func DefaultPolicy() Policy {
	return Policy{
		PowerWeight:    3,
		HighPowerKW:    150,
		HighPowerBonus: 50,
		MidPowerKW:     100,
		MidPowerBonus:  25,
	}
}

// Config defines planner settings.
type Config struct {
	TargetArrivalPct       float64 `json:"target_arrival_pct"`
	UsableCapacityFraction float64 `json:"usable_capacity_fraction"`
	MaxDistanceKm          float64 `json:"max_distance_km"`
	DefaultStationPowerKW  float64 `json:"default_station_power_kw"`
	DedupEpsilonDeg        float64 `json:"dedup_epsilon_deg"`
	Policy                 Policy  `json:"policy"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		TargetArrivalPct:       DefaultTargetArrivalPct,
		UsableCapacityFraction: DefaultUsableCapacityFraction,
		MaxDistanceKm:          DefaultMaxDistanceKm,
		DefaultStationPowerKW:  DefaultStationPowerKW,
		DedupEpsilonDeg:        DefaultDedupEpsilonDeg,
		Policy:                 DefaultPolicy(),
	}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.TargetArrivalPct == 0 {
		c.TargetArrivalPct = DefaultTargetArrivalPct
	}
	if c.UsableCapacityFraction == 0 {
		c.UsableCapacityFraction = DefaultUsableCapacityFraction
	}
	if c.MaxDistanceKm == 0 {
		c.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if c.DefaultStationPowerKW == 0 {
		c.DefaultStationPowerKW = DefaultStationPowerKW
	}
	if c.DedupEpsilonDeg == 0 {
		c.DedupEpsilonDeg = DefaultDedupEpsilonDeg
	}
	if c.Policy == (Policy{}) {
		c.Policy = DefaultPolicy()
	}
}

// Validate checks the settings once defaults have been applied.
func (c Config) Validate() error {
	if c.UsableCapacityFraction <= 0 || c.UsableCapacityFraction > 1 {
		return fmt.Errorf("%w: usable_capacity_fraction %v outside (0,1]", ErrInvalidConfig, c.UsableCapacityFraction)
	}
	if c.MaxDistanceKm <= 0 {
		return fmt.Errorf("%w: max_distance_km must be positive", ErrInvalidConfig)
	}
	if c.DefaultStationPowerKW <= 0 {
		return fmt.Errorf("%w: default_station_power_kw must be positive", ErrInvalidConfig)
	}
	if c.DedupEpsilonDeg <= 0 {
		return fmt.Errorf("%w: dedup_epsilon_deg must be positive", ErrInvalidConfig)
	}
	if c.Policy.PowerWeight <= 0 {
		return fmt.Errorf("%w: policy.power_weight must be positive", ErrInvalidConfig)
	}
	return nil
}

// ClampTarget bounds a target arrival percentage to
// [MinTargetArrivalPct, MaxTargetArrivalPct]. Zero and NaN mean the default.
func ClampTarget(pct float64) float64 {
	if pct == 0 || math.IsNaN(pct) {
		pct = DefaultTargetArrivalPct
	}
	return math.Max(MinTargetArrivalPct, math.Min(MaxTargetArrivalPct, pct))
}
