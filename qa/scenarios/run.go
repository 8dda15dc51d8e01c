package scenarios

import (
	"context"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-bns24/ECOSPEED-sub000/app"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/charging"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/logger"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/metrics"
)

// RunScenario plans every expected driving scenario of sc and checks the
// stops, the outcome and the recorded metrics.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err, "prom sink")

	svc := app.NewService(charging.NewPlanner(charging.DefaultConfig(), logger.NopLogger{}), sink, logger.NopLogger{})

	names := make([]string, 0, len(sc.Expected))
	for name := range sc.Expected {
		names = append(names, name)
	}
	sort.Strings(names)

	reports, err := svc.Plan(context.Background(), app.Trip{
		Vehicle:          sc.Vehicle,
		Segments:         sc.SegmentModels(),
		Route:            sc.RouteModels(),
		Stations:         sc.StationModels(),
		TargetArrivalPct: sc.TargetArrivalPct,
		MaxDistanceKm:    sc.MaxDistanceKm,
	}, names...)
	require.NoError(t, err)
	require.Len(t, reports, len(names))

	totalStops := 0
	for i, r := range reports {
		want := sc.Expected[names[i]]
		require.Equal(t, names[i], r.Scenario)
		require.Len(t, r.Events, len(want.Stops), "scenario %s stops", r.Scenario)
		for j, w := range want.Stops {
			got := r.Events[j]
			assert.Equal(t, w.Segment, got.SegmentIndex, "%s stop %d segment", r.Scenario, j)
			assert.Equal(t, w.Station, got.Station.Name, "%s stop %d station", r.Scenario, j)
			assert.InDelta(t, w.EnergyKWh, got.EnergyKWh, 1e-6, "%s stop %d energy", r.Scenario, j)
			assert.Equal(t, w.Terminal, got.Terminal, "%s stop %d terminal", r.Scenario, j)
		}
		assert.Equal(t, want.Completable, r.Completable, "%s completable", r.Scenario)
		assert.Equal(t, want.Unreachable, r.UnreachableTriggers, "%s unreachable", r.Scenario)
		totalStops += len(r.Events)
	}

	assert.InDelta(t, float64(len(reports)), counterSum(t, reg, "charging_plans_total"), 1e-9)
	assert.InDelta(t, float64(totalStops), counterSum(t, reg, "charging_stops_total"), 1e-9)
}

func counterSum(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	sum := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}
