package maybe

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMaybeValueOrDefault(t *testing.T) {
	if got := Some(2.5).ValueOrDefault(1); got != 2.5 {
		t.Errorf("got %f, wanted 2.5", got)
	}
	if got := None[float64]().ValueOrDefault(1); got != 1 {
		t.Errorf("got %f, wanted 1", got)
	}
}

func TestMaybeOr(t *testing.T) {
	if got := None[int]().Or(Some(3)); got.Value() != 3 {
		t.Errorf("got %d, wanted 3", got.Value())
	}
	if got := Some(1).Or(Some(3)); got.Value() != 1 {
		t.Errorf("got %d, wanted 1", got.Value())
	}
}

func TestMaybeJSON(t *testing.T) {
	type doc struct {
		Min Maybe[float64] `json:"min"`
		Max Maybe[float64] `json:"max"`
	}

	var d doc
	if err := json.Unmarshal([]byte(`{"min": 0, "max": null}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Min.IsValid() || d.Min.Value() != 0 {
		t.Errorf("min should be Some(0), got %+v", d.Min)
	}
	if d.Max.IsValid() {
		t.Errorf("max should be None, got %+v", d.Max)
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"min":0,"max":null}` {
		t.Errorf("got %s", b)
	}
}

func TestMaybeYAML(t *testing.T) {
	type doc struct {
		Rotation Maybe[int] `yaml:"rotation"`
		Decimals Maybe[int] `yaml:"decimals"`
	}

	var d doc
	if err := yaml.Unmarshal([]byte("rotation: 45\n"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := d.Rotation.Ptr(); got == nil || *got != 45 {
		t.Errorf("rotation should be 45, got %v", got)
	}
	if d.Decimals.IsValid() {
		t.Errorf("decimals should be None")
	}
}

func TestMaybeEqual(t *testing.T) {
	tests := []struct {
		a, b Maybe[[]int]
		want bool
	}{
		{None[[]int](), None[[]int](), true},
		{Some([]int{1}), Some([]int{1}), true},
		{Some([]int{1}), Some([]int{2}), false},
		{Some([]int(nil)), None[[]int](), false},
	}
	for i, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("case %d: got %v, wanted %v", i, got, tt.want)
		}
	}
}
