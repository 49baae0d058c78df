package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/greengrid/core/dispatch"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/infra/logger"
)

// Publisher is a metrics sink publishing JSON telemetry to
// <prefix>/step, <prefix>/incident and <prefix>/summary. The summary is
// retained so late subscribers see the last finished run.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        map[string]byte
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &Publisher{
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}
	if p.prefix == "" {
		p.prefix = DefaultTopicPrefix
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	p.cli = c
	return p, nil
}

// Topic returns the topic of a telemetry kind.
func (p *Publisher) Topic(kind string) string { return p.prefix + "/" + kind }

type stepMessage struct {
	RunID    string            `json:"run_id"`
	Strategy dispatch.Strategy `json:"strategy"`
	Time     time.Time         `json:"time"`
	model.StepRecord
	Flow dispatch.FlowResult `json:"flow"`
}

type incidentMessage struct {
	RunID          string    `json:"run_id"`
	Kind           string    `json:"kind"`
	TimestampHours float64   `json:"timestamp_hours"`
	KWh            float64   `json:"kwh,omitempty"`
	DurationHours  float64   `json:"duration_hours,omitempty"`
	Time           time.Time `json:"time"`
}

type summaryMessage struct {
	RunID            string            `json:"run_id"`
	Strategy         dispatch.Strategy `json:"strategy"`
	Season           string            `json:"season"`
	Days             int               `json:"days"`
	Steps            int               `json:"steps"`
	GeneratedKWh     float64           `json:"generated_kwh"`
	ConsumedKWh      float64           `json:"consumed_kwh"`
	UnmetKWh         float64           `json:"unmet_kwh"`
	ImportedKWh      float64           `json:"imported_kwh"`
	ExportedKWh      float64           `json:"exported_kwh"`
	NetCost          float64           `json:"net_cost"`
	FinalSOCPercent  float64           `json:"final_soc_percent"`
	InverterFailures int               `json:"inverter_failures"`
	SelfSufficiency  float64           `json:"self_sufficiency"`
	Time             time.Time         `json:"time"`
}

// RecordStep publishes the step record and its energy flows.
func (p *Publisher) RecordStep(ev coremetrics.StepEvent) error {
	return p.publish("step", false, stepMessage{
		RunID:      ev.RunID,
		Strategy:   ev.Strategy,
		Time:       ev.Time,
		StepRecord: ev.Record,
		Flow:       ev.Flow,
	})
}

// RecordIncident publishes an incident.
func (p *Publisher) RecordIncident(ev coremetrics.IncidentEvent) error {
	return p.publish("incident", false, incidentMessage(ev))
}

// RecordSummary publishes the retained run summary.
func (p *Publisher) RecordSummary(ev coremetrics.SummaryEvent) error {
	return p.publish("summary", true, summaryMessage{
		RunID:            ev.RunID,
		Strategy:         ev.Strategy,
		Season:           ev.Season.String(),
		Days:             ev.Days,
		Steps:            ev.Steps,
		GeneratedKWh:     ev.GeneratedKWh,
		ConsumedKWh:      ev.ConsumedKWh,
		UnmetKWh:         ev.UnmetKWh,
		ImportedKWh:      ev.ImportedKWh,
		ExportedKWh:      ev.ExportedKWh,
		NetCost:          ev.NetCost,
		FinalSOCPercent:  ev.FinalSOCPercent,
		InverterFailures: ev.InverterFailures,
		SelfSufficiency:  ev.SelfSufficiency,
		Time:             ev.Time,
	})
}

func (p *Publisher) publish(kind string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	topic := p.Topic(kind)
	qos := p.qos[kind]
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, retained, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.logger.Errorf("publish %s attempt %d failed: %v", topic, attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
