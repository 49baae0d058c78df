package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/greengrid/core/dispatch"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/internal/testutil"
)

func TestPublisherWithMosquitto(t *testing.T) {
	testutil.RequireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	broker, cleanup, err := testutil.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("mosquitto container unavailable: %v", err)
	}
	defer cleanup()

	received := make(chan paho.Message, 4)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("subscriber"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe("it/#", 1, func(_ paho.Client, m paho.Message) { received <- m }); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	p, err := NewPublisher(Config{Broker: broker, TopicPrefix: "it", QoS: map[string]byte{"step": 1}})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer p.Close()

	if err := p.RecordStep(coremetrics.StepEvent{
		RunID:    "container",
		Strategy: dispatch.ChargePriority,
		Record:   model.StepRecord{Day: 1, HourOfDay: 9, BatterySOCPercent: 55},
		Time:     time.Now(),
	}); err != nil {
		t.Fatalf("record step: %v", err)
	}

	select {
	case m := <-received:
		if m.Topic() != "it/step" {
			t.Fatalf("unexpected topic %s", m.Topic())
		}
		var body struct {
			RunID string  `json:"run_id"`
			SOC   float64 `json:"battery_soc_percent"`
		}
		if err := json.Unmarshal(m.Payload(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.RunID != "container" || body.SOC != 55 {
			t.Fatalf("unexpected payload %s", m.Payload())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no message received")
	}
}
