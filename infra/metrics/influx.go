package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving the points.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes simulation points to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordStep writes one microgrid_step point.
func (s *InfluxSink) RecordStep(ev coremetrics.StepEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, f := ev.Record, ev.Flow
	p := write.NewPointWithMeasurement("microgrid_step").
		AddTag("run_id", ev.RunID).
		AddTag("strategy", ev.Strategy.String()).
		AddTag("inverter_operational", strconv.FormatBool(r.InverterOperational)).
		AddField("day", r.Day).
		AddField("hour_of_day", r.HourOfDay).
		AddField("solar_kw", round3(r.SolarGenerationKW)).
		AddField("load_kw", round3(r.LoadDemandKW)).
		AddField("soc_percent", round3(r.BatterySOCPercent)).
		AddField("battery_kwh", round3(r.BatteryEnergyKWh)).
		AddField("cloud_coverage", round3(r.CloudCoverage)).
		AddField("grid_imported_kwh", round3(f.GridImported)).
		AddField("grid_exported_kwh", round3(f.GridExported)).
		AddField("battery_charged_kwh", round3(f.BatteryCharged)).
		AddField("battery_discharged_kwh", round3(f.BatteryDischarged)).
		AddField("curtailed_kwh", round3(f.Curtailed)).
		AddField("unmet_kwh", round3(f.Unmet)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordIncident writes one microgrid_incident point.
func (s *InfluxSink) RecordIncident(ev coremetrics.IncidentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("microgrid_incident").
		AddTag("run_id", ev.RunID).
		AddTag("kind", ev.Kind).
		AddField("timestamp_hours", round3(ev.TimestampHours)).
		AddField("kwh", round3(ev.KWh)).
		AddField("duration_hours", round3(ev.DurationHours)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSummary writes one microgrid_summary point.
func (s *InfluxSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("microgrid_summary").
		AddTag("run_id", ev.RunID).
		AddTag("strategy", ev.Strategy.String()).
		AddTag("season", ev.Season.String()).
		AddField("days", ev.Days).
		AddField("steps", ev.Steps).
		AddField("generated_kwh", round3(ev.GeneratedKWh)).
		AddField("clipped_kwh", round3(ev.ClippedKWh)).
		AddField("consumed_kwh", round3(ev.ConsumedKWh)).
		AddField("unmet_kwh", round3(ev.UnmetKWh)).
		AddField("imported_kwh", round3(ev.ImportedKWh)).
		AddField("exported_kwh", round3(ev.ExportedKWh)).
		AddField("net_cost", round3(ev.NetCost)).
		AddField("final_soc_percent", round3(ev.FinalSOCPercent)).
		AddField("mean_soc_percent", round3(ev.MeanSOCPercent)).
		AddField("inverter_failures", ev.InverterFailures).
		AddField("downtime_hours", round3(ev.DowntimeHours)).
		AddField("self_sufficiency", round3(ev.SelfSufficiency)).
		AddField("self_consumption", round3(ev.SelfConsumption)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
