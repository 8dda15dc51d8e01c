package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/factory"
	coremetrics "github.com/ethan-bns24/ECOSPEED-sub000/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Textfile string `json:"textfile"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		// A private registry keeps the textfile limited to planning metrics.
		s, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
		if err != nil {
			return nil, err
		}
		return s.WithTextfile(c.Textfile), nil
	})

	_ = coremetrics.RegisterMetricsSink("jsonl", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("jsonl sink: path is required")
		}
		return NewJSONLSink(c.Path)
	})
}
