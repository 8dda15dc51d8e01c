// Package metrics defines the sinks that record charging plans. Sinks like
// the Prometheus and JSONL implementations in infra/metrics are created from
// configuration through a factory registry and combined with NewMultiSink
// when several are configured.
package metrics
