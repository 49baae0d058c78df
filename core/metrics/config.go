package metrics

import "github.com/kilianp07/greengrid/core/factory"

// Config lists the sinks to build, each identified by its registered type.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics on this address while the command runs
	// when not empty.
	PrometheusAddr string `json:"prometheus_addr"`
}
