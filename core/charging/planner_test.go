package charging

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

type recordLogger struct {
	warns  []string
	debugs int
}

func (r *recordLogger) Debugf(string, ...any)         { r.debugs++ }
func (r *recordLogger) Debugw(string, map[string]any) { r.debugs++ }
func (r *recordLogger) Infof(string, ...any)          {}
func (r *recordLogger) Warnf(f string, a ...any)      { r.warns = append(r.warns, fmt.Sprintf(f, a...)) }
func (r *recordLogger) Errorf(string, ...any)         {}

func ecoSegment(i int, end model.Coordinate, kwh float64) model.Segment {
	return model.Segment{
		Index:     i,
		End:       end,
		DistanceM: 5000,
		Energy:    map[string]float64{model.ScenarioEco: kwh},
	}
}

func TestPlanNoThresholdCrossing(t *testing.T) {
	segs := []model.Segment{ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 5)}
	stations := []model.Station{station("s", 45, 5, 50)}
	events := PlanRoute(segs, nil, 60, 100, stations, model.ScenarioEco, 20, 80)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestPlanForcedMidRouteStop(t *testing.T) {
	end := model.Coordinate{Lat: 45, Lon: 5}
	segs := []model.Segment{ecoSegment(0, end, 8)}
	stations := []model.Station{station("s", 45.001, 5, 50)}

	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: stations,
		Scenario: model.ScenarioEco, TargetArrivalPct: 20, MaxDistanceKm: 80,
	})
	require.Len(t, res.Events, 1)
	ev := res.Events[0]
	assert.Equal(t, 0, ev.SegmentIndex)
	assert.Equal(t, end, ev.Position)
	assert.Equal(t, "s", ev.Station.Name)
	assert.InDelta(t, 3.0, ev.EnergyKWh, 1e-9)
	assert.InDelta(t, 3.6, ev.DurationMinutes, 1e-9)
	assert.InDelta(t, 14.0, ev.SoCPct, 1e-9)
	assert.False(t, ev.Terminal)
	assert.InDelta(t, 10.0, res.FinalKWh, 1e-9)
	assert.True(t, res.Completable())
}

func TestPlanTerminalTopUp(t *testing.T) {
	route := []model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 2}}
	seg := ecoSegment(0, route[1], 8)
	seg.Start = route[0]
	// The crossing is interpolated at lon 1.25, ~83 km from the only station.
	stations := []model.Station{station("dest", 0, 2, 100)}

	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: []model.Segment{seg}, Route: route, CapacityKWh: 50, StartSoCPct: 30,
		Stations: stations, Scenario: model.ScenarioEco, TargetArrivalPct: 20, MaxDistanceKm: 50,
	})
	require.Len(t, res.Events, 1)
	ev := res.Events[0]
	assert.True(t, ev.Terminal)
	assert.Equal(t, route[1], ev.Position)
	assert.Equal(t, 0, ev.SegmentIndex)
	assert.InDelta(t, 3.0, ev.EnergyKWh, 1e-9)
	assert.InDelta(t, 1.8, ev.DurationMinutes, 1e-9)
	assert.InDelta(t, 14.0, ev.SoCPct, 1e-9)
	assert.Equal(t, 1, res.UnreachableTriggers)
	assert.True(t, res.Completable())
}

func TestPlanInterpolatesOnRouteSamples(t *testing.T) {
	route := []model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.2}}
	segs := []model.Segment{ecoSegment(0, route[1], 8)}
	stations := []model.Station{station("s", 0, 0.2, 50)}
	events := PlanRoute(segs, route, 50, 30, stations, model.ScenarioEco, 20, 80)
	require.Len(t, events, 1)
	assert.InDelta(t, 0.125, events[0].Position.Lon, 1e-12)
	assert.InDelta(t, 0.0, events[0].Position.Lat, 1e-12)
}

func TestPlanSecondCrossingBelowTargetLooksBehind(t *testing.T) {
	route := []model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 3}}
	segs := []model.Segment{
		ecoSegment(0, route[1], 8),
		ecoSegment(1, route[3], 4),
	}
	stations := []model.Station{station("s", 0, 1.25, 50)}

	// 15 -> 7 kWh: the first crossing at lon 0.625 has no station within 5 km.
	// 7 -> 3 kWh: ratio (7-10)/4 = -0.75 from sample 2 lands on lon 1.25.
	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: segs, Route: route, CapacityKWh: 50, StartSoCPct: 30, Stations: stations,
		Scenario: model.ScenarioEco, TargetArrivalPct: 20, MaxDistanceKm: 5,
	})
	assert.Equal(t, 1, res.UnreachableTriggers)
	require.Len(t, res.Events, 1)
	ev := res.Events[0]
	assert.Equal(t, 1, ev.SegmentIndex)
	assert.InDelta(t, 1.25, ev.Position.Lon, 1e-12)
	assert.InDelta(t, 0, ev.Station.DistanceKm, 1e-9)
	assert.InDelta(t, 7.0, ev.EnergyKWh, 1e-9)
	assert.True(t, res.Completable())
}

func TestPlanEmptyInputs(t *testing.T) {
	segs := []model.Segment{ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 40)}
	stations := []model.Station{station("s", 45, 5, 50)}

	assert.Empty(t, PlanRoute(nil, nil, 50, 30, stations, model.ScenarioEco, 20, 80))
	assert.Empty(t, PlanRoute(segs, nil, 0, 30, stations, model.ScenarioEco, 20, 80))
	assert.Empty(t, PlanRoute(segs, nil, math.NaN(), 30, stations, model.ScenarioEco, 20, 80))
	assert.Empty(t, PlanRoute(segs, nil, 50, 30, nil, model.ScenarioEco, 20, 80))

	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Scenario: model.ScenarioEco,
	})
	assert.Empty(t, res.Events)
	assert.InDelta(t, -25.0, res.FinalKWh, 1e-9)
	assert.False(t, res.Completable())
}

func TestPlanScenarioSelectsEnergyField(t *testing.T) {
	seg := model.Segment{
		End:    model.Coordinate{Lat: 45, Lon: 5},
		Energy: map[string]float64{model.ScenarioEco: 2, model.ScenarioLimit: 10},
	}
	stations := []model.Station{station("s", 45, 5, 50)}
	assert.Empty(t, PlanRoute([]model.Segment{seg}, nil, 50, 30, stations, model.ScenarioEco, 20, 80))

	events := PlanRoute([]model.Segment{seg}, nil, 50, 30, stations, model.ScenarioLimit, 20, 80)
	require.Len(t, events, 1)
	assert.InDelta(t, 5.0, events[0].EnergyKWh, 1e-9)
}

func TestPlanUsableCapacityCapsEnergy(t *testing.T) {
	segs := []model.Segment{ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 1)}
	stations := []model.Station{station("s", 45, 5, 150)}
	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 10, Stations: stations,
		Scenario: model.ScenarioEco, TargetArrivalPct: 80,
	})
	require.Len(t, res.Events, 1)
	assert.InDelta(t, 30.0, res.Events[0].EnergyKWh, 1e-9)
	assert.InDelta(t, 8.0, res.Events[0].SoCPct, 1e-9)
	assert.InDelta(t, 12.0, res.Events[0].DurationMinutes, 1e-9)
	assert.False(t, res.Completable())
	assert.True(t, res.FinalCheckSkipped)
}

func TestPlanEventCarriesEffectivePower(t *testing.T) {
	segs := []model.Segment{ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 8)}
	cfg := DefaultConfig()
	cfg.DefaultStationPowerKW = 40
	res := NewPlanner(cfg, nil).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: []model.Station{station("unrated", 45, 5, 0)},
		Scenario: model.ScenarioEco, TargetArrivalPct: 20,
	})
	require.Len(t, res.Events, 1)
	ev := res.Events[0]
	assert.Zero(t, ev.Station.PowerKW)
	assert.InDelta(t, 40.0, ev.PowerKW, 1e-12)
	assert.InDelta(t, 4.5, ev.DurationMinutes, 1e-9)
}

func TestPlanTargetClamped(t *testing.T) {
	segs := []model.Segment{ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 1)}
	stations := []model.Station{station("s", 45, 5, 50)}
	p := NewPlanner(DefaultConfig(), nil)

	low := p.Plan(Request{Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: stations, Scenario: model.ScenarioEco, TargetArrivalPct: 5})
	assert.Equal(t, 20.0, low.TargetArrivalPct)
	assert.Equal(t, 10.0, low.TargetKWh)

	high := p.Plan(Request{Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: stations, Scenario: model.ScenarioEco, TargetArrivalPct: 95})
	assert.Equal(t, 80.0, high.TargetArrivalPct)
}

func TestPlanDuplicateStopSuppressed(t *testing.T) {
	segs := []model.Segment{
		ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 8),
		ecoSegment(1, model.Coordinate{Lat: 45.001, Lon: 5.001}, 1),
	}
	stations := []model.Station{station("s", 45, 5, 50)}
	log := &recordLogger{}
	res := NewPlanner(DefaultConfig(), log).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: stations, Scenario: model.ScenarioEco,
	})
	require.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.DuplicateTriggers)
	assert.True(t, res.FinalCheckSkipped)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "no route geometry")
}

func TestPlanUnreachableContinues(t *testing.T) {
	segs := []model.Segment{
		ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 8),
		ecoSegment(1, model.Coordinate{Lat: 46, Lon: 5}, 1),
	}
	// Only reachable from the second segment end.
	stations := []model.Station{station("north", 46.01, 5, 50)}
	res := NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments: segs, CapacityKWh: 50, StartSoCPct: 30, Stations: stations,
		Scenario: model.ScenarioEco, MaxDistanceKm: 20,
	})
	assert.Equal(t, 1, res.UnreachableTriggers)
	require.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.Events[0].SegmentIndex)
	assert.InDelta(t, 4.0, res.Events[0].EnergyKWh, 1e-9)
}

func TestPlanRegenerativeSegmentRestoresEnergy(t *testing.T) {
	segs := []model.Segment{
		ecoSegment(0, model.Coordinate{Lat: 45, Lon: 5}, 4),
		ecoSegment(1, model.Coordinate{Lat: 45.1, Lon: 5}, -3),
		ecoSegment(2, model.Coordinate{Lat: 45.2, Lon: 5}, 3.5),
	}
	stations := []model.Station{station("s", 45, 5, 50)}
	// 15 -> 11 -> 14 -> 10.5: never below the 10 kWh target.
	assert.Empty(t, PlanRoute(segs, nil, 50, 30, stations, model.ScenarioEco, 20, 80))
}

// longRoute builds a deterministic Le Havre to Versailles style route.
func longRoute() ([]model.Segment, []model.Coordinate, []model.Station) {
	const n = 60
	a := model.Coordinate{Lat: 49.4944, Lon: 0.1079}
	b := model.Coordinate{Lat: 48.8014, Lon: 2.1301}
	at := func(f float64) model.Coordinate {
		return model.Coordinate{Lat: a.Lat + (b.Lat-a.Lat)*f, Lon: a.Lon + (b.Lon-a.Lon)*f}
	}
	route := make([]model.Coordinate, 2*n+1)
	for i := range route {
		route[i] = at(float64(i) / float64(2*n))
	}
	segs := make([]model.Segment, n)
	var stations []model.Station
	powers := []float64{50, 150, 350, 22, 0}
	for i := range segs {
		kwh := 1.0 + 0.6*math.Sin(float64(i))
		if i%7 == 6 {
			kwh = -0.5
		}
		segs[i] = model.Segment{
			Index:  i,
			Start:  at(float64(i) / n),
			End:    at(float64(i+1) / n),
			Energy: map[string]float64{model.ScenarioEco: kwh, model.ScenarioLimit: kwh * 1.3},
		}
		if i%4 == 0 {
			st := station(fmt.Sprintf("st-%d", i), segs[i].End.Lat+0.005, segs[i].End.Lon, powers[(i/4)%len(powers)])
			if i%16 == 8 {
				st.Status = model.StatusOccupied
			}
			stations = append(stations, st)
		}
	}
	stations = append(stations, model.Station{Name: "broken", Position: model.Coordinate{Lat: math.NaN(), Lon: 1}, Status: model.StatusAvailable})
	return segs, route, stations
}

func TestPlanProperties(t *testing.T) {
	segs, route, stations := longRoute()
	const capacity = 40.0
	for _, scenario := range []string{model.ScenarioEco, model.ScenarioLimit} {
		for _, withRoute := range []bool{true, false} {
			name := fmt.Sprintf("%s/route=%v", scenario, withRoute)
			t.Run(name, func(t *testing.T) {
				r := route
				if !withRoute {
					r = nil
				}
				req := Request{Segments: segs, Route: r, CapacityKWh: capacity, StartSoCPct: 90,
					Stations: stations, Scenario: scenario, TargetArrivalPct: 25}
				p := NewPlanner(DefaultConfig(), nil)
				res := p.Plan(req)
				require.NotEmpty(t, res.Events)

				for i, ev := range res.Events {
					if i > 0 {
						assert.GreaterOrEqual(t, ev.SegmentIndex, res.Events[i-1].SegmentIndex)
					}
					assert.GreaterOrEqual(t, ev.SoCPct, 0.0)
					assert.LessOrEqual(t, ev.SoCPct, 100.0)
					assert.LessOrEqual(t, ev.EnergyKWh, capacity*0.6+1e-9)
					assert.Greater(t, ev.DurationMinutes, 0.0)
					assert.NotEqual(t, "broken", ev.Station.Name)
					for _, prev := range res.Events[:i] {
						dup := prev.Station.Name == ev.Station.Name &&
							math.Abs(prev.Position.Lat-ev.Position.Lat) < 0.01 &&
							math.Abs(prev.Position.Lon-ev.Position.Lon) < 0.01
						assert.False(t, dup, "duplicate stop at %s", ev.Station.Name)
					}
				}
				assert.Equal(t, res, p.Plan(req), "planning must be deterministic")
			})
		}
	}
}
