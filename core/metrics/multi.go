package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordPlan(rec PlanRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordChargingStops forwards stops to the sinks that support them.
func (m *MultiSink) RecordChargingStops(stops []ChargingStopEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ChargingStopRecorder); ok {
			if err := rec.RecordChargingStops(stops); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes every sink that buffers output.
func (m *MultiSink) Flush() error {
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
