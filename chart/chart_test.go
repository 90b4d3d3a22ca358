package chart

import (
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		if err != nil {
			t.Errorf("ParseType(%q) unexpected error: %v", typ, err)
		}
		if got != typ {
			t.Errorf("ParseType(%q) = %q", typ, got)
		}
	}

	if got, err := ParseType(" Column "); err != nil || got != TypeColumn {
		t.Errorf("ParseType should trim and lower case, got %q, %v", got, err)
	}

	if _, err := ParseType("sankey"); !errors.Is(err, ErrUnsupportedChartType) {
		t.Errorf("expected ErrUnsupportedChartType, got %v", err)
	}
}

func TestTypeHasAxes(t *testing.T) {
	tests := []struct {
		typ     Type
		hasAxes bool
		pieLike bool
	}{
		{TypeLine, true, false},
		{TypeColumn, true, false},
		{TypeScatter, true, false},
		{TypeRadar, true, false},
		{TypePie, false, true},
		{TypeDonut, false, true},
		{TypeGauge, false, false},
	}
	for _, tt := range tests {
		if got := tt.typ.HasAxes(); got != tt.hasAxes {
			t.Errorf("%s.HasAxes() = %v, wanted %v", tt.typ, got, tt.hasAxes)
		}
		if got := tt.typ.IsPieLike(); got != tt.pieLike {
			t.Errorf("%s.IsPieLike() = %v, wanted %v", tt.typ, got, tt.pieLike)
		}
	}
}

func TestSpecColor(t *testing.T) {
	s := Spec{Colors: []string{"#111", "#222"}}
	if got := s.Color(1); got != "#222" {
		t.Errorf("got %q", got)
	}
	if got := s.Color(2); got != "" {
		t.Errorf("palette overflow should give empty color, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Input {
		return Input{
			Spec:   Spec{Type: TypeColumn},
			Series: []Series{{Title: "S1", Data: []any{1, 2}}},
			Axes:   []Axis{{Kind: AxisX, Labels: []string{"a", "b"}}, {Kind: AxisY}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(in *Input)
		wantErr error
	}{
		{"valid", func(in *Input) {}, nil},
		{"unknown chart type", func(in *Input) { in.Spec.Type = "bubble" }, ErrUnsupportedChartType},
		{"unknown series type", func(in *Input) { in.Series[0].Type = "bubble" }, ErrUnsupportedChartType},
		{"no series", func(in *Input) { in.Series = nil }, ErrMissingData},
		{"nil data", func(in *Input) { in.Series[0].Data = nil }, ErrMissingData},
		{"empty data is fine", func(in *Input) { in.Series[0].Data = []any{} }, nil},
		{"two x-axes", func(in *Input) { in.Axes = append(in.Axes, Axis{Kind: AxisX}) }, ErrInvalidAxes},
		{"two primary y-axes", func(in *Input) { in.Axes = append(in.Axes, Axis{Kind: AxisY}) }, ErrInvalidAxes},
		{"two secondary y-axes", func(in *Input) {
			in.Axes = append(in.Axes, Axis{Kind: AxisY, Opposite: true}, Axis{Kind: AxisY, Opposite: true})
		}, ErrInvalidAxes},
		{"labels on y", func(in *Input) { in.Axes[1].Labels = []string{"x"} }, ErrInvalidAxes},
		{"unknown axis kind", func(in *Input) { in.Axes[0].Kind = "z" }, ErrInvalidAxes},
		{"unknown target axis", func(in *Input) { in.Series[0].TargetAxis = "tertiary" }, ErrInvalidAxes},
		{"bad legend", func(in *Input) { in.Spec.LegendPosition = "middle" }, ErrInvalidLegendPosition},
		{"legend none", func(in *Input) { in.Spec.LegendPosition = LegendNone }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := Validate(in)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWantsSecondaryAxis(t *testing.T) {
	in := Input{Spec: Spec{Type: TypeLine}}
	if in.WantsSecondaryAxis() {
		t.Errorf("no request expected")
	}
	in.Spec.Inherit = true
	if !in.WantsSecondaryAxis() {
		t.Errorf("inherit flag should request a secondary axis")
	}
	in.Spec.Inherit = false
	in.Axes = []Axis{{Kind: AxisY, Opposite: true}}
	if !in.WantsSecondaryAxis() {
		t.Errorf("opposite y-axis should request a secondary axis")
	}
}
