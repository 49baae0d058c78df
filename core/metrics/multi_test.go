package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	steps     int
	incidents int
	err       error
}

func (r *recordSink) RecordStep(StepEvent) error {
	r.steps++
	return r.err
}

func (r *recordSink) RecordIncident(IncidentEvent) error {
	r.incidents++
	return nil
}

type stepOnlySink struct{ steps int }

func (s *stepOnlySink) RecordStep(StepEvent) error {
	s.steps++
	return nil
}

// TestMultiSink ensures events are forwarded to every sink supporting them.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &stepOnlySink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordStep(StepEvent{}); err != nil {
		t.Fatalf("record step: %v", err)
	}
	if err := m.RecordIncident(IncidentEvent{Kind: "curtailment"}); err != nil {
		t.Fatalf("record incident: %v", err)
	}
	if err := m.RecordSummary(SummaryEvent{}); err != nil {
		t.Fatalf("record summary: %v", err)
	}
	if s1.steps != 1 || s2.steps != 1 || s1.incidents != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

// A failing sink does not prevent delivery to the others.
func TestMultiSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &stepOnlySink{}
	err := NewMultiSink(s1, s2).RecordStep(StepEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s2.steps != 1 {
		t.Fatal("second sink skipped")
	}
}
