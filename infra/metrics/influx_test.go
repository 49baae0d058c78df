package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
)

type influxRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *influxRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, strings.TrimSpace(string(data)))
		r.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordStep(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	ev := sampleStep()
	if err := sink.RecordStep(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("microgrid_step").
		AddTag("run_id", "run-1").
		AddTag("strategy", "CHARGE_PRIORITY").
		AddTag("inverter_operational", "true").
		AddField("day", 1).
		AddField("hour_of_day", 12).
		AddField("solar_kw", 4.0).
		AddField("load_kw", 1.234).
		AddField("soc_percent", 66.667).
		AddField("battery_kwh", 9.0).
		AddField("cloud_coverage", 0.1).
		AddField("grid_imported_kwh", 0.0).
		AddField("grid_exported_kwh", 0.5).
		AddField("battery_charged_kwh", 2.25).
		AddField("battery_discharged_kwh", 0.0).
		AddField("curtailed_kwh", 0.0).
		AddField("unmet_kwh", 0.0).
		SetTime(ev.Time)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(rec.bodies) != 1 || rec.bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", rec.bodies)
	}
}

func TestInfluxSink_RecordIncidentAndSummary(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	now := time.Date(2025, 3, 20, 14, 0, 0, 0, time.UTC)
	if err := sink.RecordIncident(coremetrics.IncidentEvent{
		RunID: "run-1", Kind: "inverter_failure", TimestampHours: 14, DurationHours: 6, Time: now,
	}); err != nil {
		t.Fatalf("incident: %v", err)
	}
	if err := sink.RecordSummary(coremetrics.SummaryEvent{
		RunID: "run-1", Season: model.Winter, Days: 2, Steps: 48, NetCost: -1.23456, Time: now,
	}); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rec.bodies) != 2 {
		t.Fatalf("expected 2 writes got %d", len(rec.bodies))
	}
	for _, want := range []string{"microgrid_incident", "kind=inverter_failure", "duration_hours=6"} {
		if !strings.Contains(rec.bodies[0], want) {
			t.Errorf("incident body %q lacks %q", rec.bodies[0], want)
		}
	}
	for _, want := range []string{"microgrid_summary", "season=winter", "strategy=LOAD_PRIORITY", "net_cost=-1.235", "steps=48i"} {
		if !strings.Contains(rec.bodies[1], want) {
			t.Errorf("summary body %q lacks %q", rec.bodies[1], want)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
