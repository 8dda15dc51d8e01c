package metrics

import "time"

// PlanRecord summarises one planning run for a scenario.
type PlanRecord struct {
	PlanID              string    `json:"plan_id"`
	Scenario            string    `json:"scenario"`
	VehicleID           string    `json:"vehicle_id,omitempty"`
	Stops               int       `json:"stops"`
	TerminalStop        bool      `json:"terminal_stop"`
	EnergyConsumedKWh   float64   `json:"energy_consumed_kwh"`
	EnergyAddedKWh      float64   `json:"energy_added_kwh"`
	ChargingMinutes     float64   `json:"charging_minutes"`
	ArrivalSoCPct       float64   `json:"arrival_soc_pct"`
	UnreachableTriggers int       `json:"unreachable_triggers"`
	Completable         bool      `json:"completable"`
	Time                time.Time `json:"time"`
}

// MetricsSink records planning results for observability purposes.
type MetricsSink interface {
	RecordPlan(rec PlanRecord) error
}

// ChargingStopEvent describes one planned stop.
type ChargingStopEvent struct {
	PlanID    string
	Scenario  string
	Station   string
	Operator  string
	PowerKW   float64
	EnergyKWh float64
	Minutes   float64
	SoCPct    float64
	Terminal  bool
	Time      time.Time
}

// ChargingStopRecorder is implemented by sinks able to record individual stops.
type ChargingStopRecorder interface {
	RecordChargingStops(stops []ChargingStopEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanRecord) error                   { return nil }
func (NopSink) RecordChargingStops([]ChargingStopEvent) error { return nil }

// Flusher is implemented by sinks that buffer output until flushed.
type Flusher interface {
	Flush() error
}
