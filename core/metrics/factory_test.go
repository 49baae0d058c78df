package metrics_test

import (
	"path/filepath"
	"testing"

	"github.com/kilianp07/greengrid/core/factory"
	metrics "github.com/kilianp07/greengrid/core/metrics"
	inframetrics "github.com/kilianp07/greengrid/infra/metrics"
)

/*
TestMetricsFactory_Builtins verifies registration via infra/metrics/factory.go.

	Cases:
	- instantiate builtin nop sink
	- unknown type returns error
*/
func TestMetricsFactory_Builtins(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if s == nil {
		t.Fatal("expected sink instance")
	}
	if _, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	types := metrics.SinkTypes()
	for _, want := range []string{"eco", "influx", "mqtt", "nop", "prometheus"} {
		found := false
		for _, got := range types {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("sink type %s not registered: %v", want, types)
		}
	}
}

/*
TestNewMetricsSink_Multi validates NewMetricsSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - two configs -> MultiSink with two sub-sinks
*/
func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	cfgs := []factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}}
	s, err = metrics.NewMetricsSink(cfgs)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}
}

func TestNewMetricsSink_EcoSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eco.db")
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{
		Type: "eco",
		Conf: map[string]any{"emission_factor": 80.0, "sqlite_path": path},
	}})
	if err != nil {
		t.Fatalf("create eco: %v", err)
	}
	eco, ok := s.(*inframetrics.EcoSink)
	if !ok {
		t.Fatalf("expected EcoSink, got %T", s)
	}
	if err := eco.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "mqtt"}}); err == nil {
		t.Fatal("expected error for mqtt sink without broker")
	}
}
