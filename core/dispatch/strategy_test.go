package dispatch

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
	}{
		{"LOAD_PRIORITY", LoadPriority},
		{"charge_priority", ChargePriority},
		{" produce-priority ", ProducePriority},
	}
	for _, c := range cases {
		got, err := ParseStrategy(c.in)
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parse %q: got %v want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseStrategy("GREEDY"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestStrategyText(t *testing.T) {
	b, err := json.Marshal(struct {
		S Strategy `json:"s"`
	}{ProducePriority})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"s":"PRODUCE_PRIORITY"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var out struct {
		S Strategy `json:"s"`
	}
	if err := json.Unmarshal([]byte(`{"s":"load_priority"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.S != LoadPriority {
		t.Fatalf("got %v", out.S)
	}
	if Strategy(9).Valid() || Strategy(9).Description() != "" {
		t.Fatal("out of range strategy must be invalid")
	}
}

func TestEveryStrategyHasFiveRoutes(t *testing.T) {
	for _, s := range Strategies() {
		if n := len(s.routes()); n != 5 {
			t.Fatalf("%s has %d routes", s, n)
		}
		if s.Description() == "" {
			t.Fatalf("%s has no description", s)
		}
	}
}
