package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	core "github.com/kilianp07/greengrid/core/metrics"
	eco "github.com/kilianp07/greengrid/core/metrics/eco"
)

// EcoSink aggregates steps into the daily ecological ledger and publishes
// the KPIs of the current day as Prometheus gauges.
type EcoSink struct {
	store       eco.Store
	factor      float64
	sufficiency *prometheus.GaugeVec
	consumption *prometheus.GaugeVec
	co2         *prometheus.GaugeVec
}

// NewEcoSink creates a sink with Prometheus gauges registered on reg. factor
// is the grid emission factor in grams of CO2 per kWh.
func NewEcoSink(store eco.Store, factor float64, reg prometheus.Registerer) (*EcoSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"run_id", "day"}
	s := &EcoSink{
		store:  store,
		factor: factor,
		sufficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "greengrid_daily_self_sufficiency_ratio",
			Help: "Share of the daily consumption not imported from the grid",
		}, labels),
		consumption: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "greengrid_daily_self_consumption_ratio",
			Help: "Share of the daily solar generation not exported",
		}, labels),
		co2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "greengrid_daily_co2_avoided_grams",
			Help: "CO2 avoided by local generation per day",
		}, labels),
	}
	var err error
	if s.sufficiency, err = register(reg, s.sufficiency); err != nil {
		return nil, err
	}
	if s.consumption, err = register(reg, s.consumption); err != nil {
		return nil, err
	}
	if s.co2, err = register(reg, s.co2); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordStep adds the step's flows to the ledger and refreshes the gauges of
// its day.
func (s *EcoSink) RecordStep(ev core.StepEvent) error {
	rec := eco.Record{
		RunID:       ev.RunID,
		Date:        ev.Time,
		SolarKWh:    ev.Flow.SolarKWh,
		ImportedKWh: ev.Flow.GridImported,
		ExportedKWh: ev.Flow.GridExported,
		ConsumedKWh: ev.Flow.LoadServed,
	}
	if err := s.store.Add(rec); err != nil {
		return err
	}
	records, err := s.store.Query(ev.RunID, ev.Time, ev.Time)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	day := records[0]
	dayStr := day.Date.Format("2006-01-02")
	s.sufficiency.WithLabelValues(ev.RunID, dayStr).Set(day.SelfSufficiency())
	s.consumption.WithLabelValues(ev.RunID, dayStr).Set(day.SelfConsumption())
	s.co2.WithLabelValues(ev.RunID, dayStr).Set(day.CO2Avoided(s.factor))
	return nil
}

// Close releases the ledger store when it holds resources.
func (s *EcoSink) Close() error {
	if c, ok := s.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
