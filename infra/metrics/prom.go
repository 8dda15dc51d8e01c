package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ethan-bns24/ECOSPEED-sub000/core/metrics"
)

// PromSink records charging plans in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	stops       *prometheus.CounterVec
	unreachable *prometheus.CounterVec
	minutes     *prometheus.HistogramVec
	energy      *prometheus.HistogramVec
	arrival     *prometheus.GaugeVec

	gatherer prometheus.Gatherer
	textfile string
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charging_plans_total",
		Help: "Total number of charging plans computed",
	}, []string{"scenario", "completable"})
	stops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charging_stops_total",
		Help: "Total number of planned charging stops",
	}, []string{"scenario", "terminal"})
	unreachable := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charging_unreachable_triggers_total",
		Help: "Threshold crossings where no station was within range",
	}, []string{"scenario"})
	minutes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "charging_stop_minutes",
		Help:    "Estimated duration of planned charging stops",
		Buckets: []float64{2, 5, 10, 15, 20, 30, 45, 60, 90},
	}, []string{"scenario"})
	energy := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "charging_stop_energy_kwh",
		Help:    "Energy added by planned charging stops",
		Buckets: prometheus.LinearBuckets(5, 5, 10),
	}, []string{"scenario"})
	arrival := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "charging_arrival_soc_percent",
		Help: "State of charge at arrival for the last plan of a scenario",
	}, []string{"scenario"})

	var err error
	if plans, err = register(reg, plans); err != nil {
		return nil, err
	}
	if stops, err = register(reg, stops); err != nil {
		return nil, err
	}
	if unreachable, err = register(reg, unreachable); err != nil {
		return nil, err
	}
	if minutes, err = register(reg, minutes); err != nil {
		return nil, err
	}
	if energy, err = register(reg, energy); err != nil {
		return nil, err
	}
	if arrival, err = register(reg, arrival); err != nil {
		return nil, err
	}

	s := &PromSink{plans: plans, stops: stops, unreachable: unreachable, minutes: minutes, energy: energy, arrival: arrival}
	if g, ok := reg.(prometheus.Gatherer); ok {
		s.gatherer = g
	}
	return s, nil
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// WithTextfile makes Flush write every gathered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func (s *PromSink) WithTextfile(path string) *PromSink {
	s.textfile = path
	return s
}

// RecordPlan updates plan counters and the arrival gauge.
func (s *PromSink) RecordPlan(rec coremetrics.PlanRecord) error {
	s.plans.WithLabelValues(rec.Scenario, strconv.FormatBool(rec.Completable)).Inc()
	s.unreachable.WithLabelValues(rec.Scenario).Add(float64(rec.UnreachableTriggers))
	s.arrival.WithLabelValues(rec.Scenario).Set(rec.ArrivalSoCPct)
	return nil
}

// RecordChargingStops counts stops and observes their duration and energy.
func (s *PromSink) RecordChargingStops(stops []coremetrics.ChargingStopEvent) error {
	for _, st := range stops {
		s.stops.WithLabelValues(st.Scenario, strconv.FormatBool(st.Terminal)).Inc()
		s.minutes.WithLabelValues(st.Scenario).Observe(st.Minutes)
		s.energy.WithLabelValues(st.Scenario).Observe(st.EnergyKWh)
	}
	return nil
}

// Flush writes the textfile when one is configured.
func (s *PromSink) Flush() error {
	if s.textfile == "" || s.gatherer == nil {
		return nil
	}
	return prometheus.WriteToTextfile(s.textfile, s.gatherer)
}
