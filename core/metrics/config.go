package metrics

import "github.com/ethan-bns24/ECOSPEED-sub000/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
