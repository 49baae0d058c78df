package factory

import (
	"errors"
	"testing"
)

type sample struct {
	A    int
	Name string
}

type sampleConf struct {
	A    int    `json:"a"`
	Name string `json:"name"`
}

func newSample(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A, Name: c.Name}, nil
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", newSample); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3, "name": "x"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.A != 3 || inst.Name != "x" {
		t.Fatalf("unexpected instance %+v", inst)
	}
}

// String settings, as produced by environment overrides, are converted.
func TestDecode_WeakTypes(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"a": "42"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.A != 42 {
		t.Fatalf("expected 42 got %d", c.A)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if err := reg.Register("a", func(map[string]any) (int, error) { return 0, errors.New("boom") }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := reg.Create(ModuleConfig{Type: "a"}); err == nil {
		t.Fatal("expected factory error")
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}
