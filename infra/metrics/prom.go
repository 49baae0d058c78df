package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/greengrid/core/metrics"
)

// PromSink exposes the microgrid state as Prometheus metrics.
type PromSink struct {
	soc         *prometheus.GaugeVec
	energy      *prometheus.GaugeVec
	solar       *prometheus.GaugeVec
	load        *prometheus.GaugeVec
	cloud       *prometheus.GaugeVec
	inverter    *prometheus.GaugeVec
	demand      *prometheus.HistogramVec
	flows       *prometheus.CounterVec
	incidents   *prometheus.CounterVec
	netCost     *prometheus.GaugeVec
	sufficiency *prometheus.GaugeVec
}

// NewPromSink registers the microgrid metrics on the default Prometheus
// registerer. The HTTP endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}
	s := &PromSink{
		soc:      gauge("greengrid_battery_soc_percent", "Battery state of charge in percent", "strategy"),
		energy:   gauge("greengrid_battery_energy_kwh", "Energy stored in the battery", "strategy"),
		solar:    gauge("greengrid_solar_generation_kw", "Solar power delivered through the inverter", "strategy"),
		load:     gauge("greengrid_load_demand_kw", "Household power demand", "strategy"),
		cloud:    gauge("greengrid_cloud_coverage_ratio", "Cloud coverage of the current day", "strategy"),
		inverter: gauge("greengrid_inverter_operational", "1 when the inverter is operational", "strategy"),
		demand: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greengrid_load_demand_kw_distribution",
			Help:    "Distribution of household power demand per step",
			Buckets: []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4},
		}, []string{"strategy"}),
		flows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greengrid_energy_flow_kwh_total",
			Help: "Energy routed by the dispatch engine per flow",
		}, []string{"strategy", "flow"}),
		incidents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greengrid_incidents_total",
			Help: "Incidents observed during simulation runs",
		}, []string{"kind"}),
		netCost:     gauge("greengrid_run_net_cost", "Net grid cost of the last finished run", "strategy", "season"),
		sufficiency: gauge("greengrid_run_self_sufficiency_ratio", "Self-sufficiency of the last finished run", "strategy", "season"),
	}

	var err error
	for _, g := range []**prometheus.GaugeVec{&s.soc, &s.energy, &s.solar, &s.load, &s.cloud, &s.inverter, &s.netCost, &s.sufficiency} {
		if *g, err = register(reg, *g); err != nil {
			return nil, err
		}
	}
	if s.demand, err = register(reg, s.demand); err != nil {
		return nil, err
	}
	if s.flows, err = register(reg, s.flows); err != nil {
		return nil, err
	}
	if s.incidents, err = register(reg, s.incidents); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStep updates the state gauges and the flow counters.
func (s *PromSink) RecordStep(ev coremetrics.StepEvent) error {
	strategy := ev.Strategy.String()
	r := ev.Record
	s.soc.WithLabelValues(strategy).Set(r.BatterySOCPercent)
	s.energy.WithLabelValues(strategy).Set(r.BatteryEnergyKWh)
	s.solar.WithLabelValues(strategy).Set(r.SolarGenerationKW)
	s.load.WithLabelValues(strategy).Set(r.LoadDemandKW)
	s.cloud.WithLabelValues(strategy).Set(r.CloudCoverage)
	if r.InverterOperational {
		s.inverter.WithLabelValues(strategy).Set(1)
	} else {
		s.inverter.WithLabelValues(strategy).Set(0)
	}
	s.demand.WithLabelValues(strategy).Observe(r.LoadDemandKW)

	f := ev.Flow
	for flow, kwh := range map[string]float64{
		"solar_to_load":      f.SolarToLoad,
		"battery_charged":    f.BatteryCharged,
		"battery_discharged": f.BatteryDischarged,
		"battery_loss":       f.BatteryLoss(),
		"grid_imported":      f.GridImported,
		"grid_exported":      f.GridExported,
		"curtailed":          f.Curtailed,
		"unmet":              f.Unmet,
	} {
		if kwh > 0 {
			s.flows.WithLabelValues(strategy, flow).Add(kwh)
		}
	}
	return nil
}

// RecordIncident counts incidents by kind.
func (s *PromSink) RecordIncident(ev coremetrics.IncidentEvent) error {
	s.incidents.WithLabelValues(ev.Kind).Inc()
	return nil
}

// RecordSummary publishes the KPIs of a finished run.
func (s *PromSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	s.netCost.WithLabelValues(ev.Strategy.String(), ev.Season.String()).Set(ev.NetCost)
	s.sufficiency.WithLabelValues(ev.Strategy.String(), ev.Season.String()).Set(ev.SelfSufficiency)
	return nil
}
