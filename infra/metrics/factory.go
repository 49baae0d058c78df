package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/greengrid/core/factory"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	eco "github.com/kilianp07/greengrid/core/metrics/eco"
	"github.com/kilianp07/greengrid/infra/kpi"
	"github.com/kilianp07/greengrid/infra/mqtt"
)

// DefaultEmissionFactor is the grid emission factor in gCO2/kWh used by the
// eco sink when none is configured.
const DefaultEmissionFactor = 50.0

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	_ = coremetrics.RegisterMetricsSink("eco", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		c := struct {
			EmissionFactor float64 `json:"emission_factor"`
			// SQLitePath persists the ledger when set. It is kept in
			// memory otherwise.
			SQLitePath string `json:"sqlite_path"`
		}{EmissionFactor: DefaultEmissionFactor}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		var store eco.Store = eco.NewMemoryStore()
		if c.SQLitePath != "" {
			db, err := kpi.NewSQLiteStore(c.SQLitePath)
			if err != nil {
				return nil, err
			}
			store = db
		}
		s, err := NewEcoSink(store, c.EmissionFactor, prometheus.DefaultRegisterer)
		if err != nil {
			if cl, ok := store.(*kpi.SQLiteStore); ok {
				_ = cl.Close()
			}
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		p, err := mqtt.NewPublisher(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
