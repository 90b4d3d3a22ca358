// Package chart holds the library-agnostic description of a chart: the
// top-level Spec, its data Series and its Axes.
package chart

import (
	"fmt"
	"strings"

	"github.com/angas/chartdef-go/types/maybe"
)

type Type string

const (
	TypeLine    Type = "line"
	TypeBar     Type = "bar"
	TypeColumn  Type = "column"
	TypePie     Type = "pie"
	TypeDonut   Type = "donut"
	TypeArea    Type = "area"
	TypeSpline  Type = "spline"
	TypeScatter Type = "scatter"
	TypeGauge   Type = "gauge"
	TypeRadar   Type = "radar"
)

var Types = []Type{
	TypeLine, TypeBar, TypeColumn, TypePie, TypeDonut,
	TypeArea, TypeSpline, TypeScatter, TypeGauge, TypeRadar,
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedChartType, s)
}

// IsPieLike reports whether the type draws one ring of slices.
func (t Type) IsPieLike() bool {
	return t == TypePie || t == TypeDonut
}

// HasAxes reports whether the type is drawn on cartesian (or radial) axes.
func (t Type) HasAxes() bool {
	return !t.IsPieLike() && t != TypeGauge
}

const (
	LegendTop    = "top"
	LegendRight  = "right"
	LegendBottom = "bottom"
	LegendLeft   = "left"
	LegendNone   = "none"
)

type Band struct {
	From  float64 `yaml:"from" json:"from"`
	To    float64 `yaml:"to" json:"to"`
	Color string  `yaml:"color" json:"color"`
}

type Gauge struct {
	Min   maybe.Maybe[float64] `yaml:"min,omitempty" json:"min,omitzero"`
	Max   maybe.Maybe[float64] `yaml:"max,omitempty" json:"max,omitzero"`
	Bands []Band               `yaml:"bands,omitempty" json:"bands,omitempty"`
}

// Spec is the top-level chart configuration.
type Spec struct {
	Type     Type   `yaml:"type" json:"type"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Stacking bool   `yaml:"stacking,omitempty" json:"stacking,omitempty"`
	Polar    bool   `yaml:"polar,omitempty" json:"polar,omitempty"`
	// Inherit requests a secondary y-axis for the second series. Settings
	// not given on an opposite y Axis are inherited from the primary one.
	Inherit        bool                 `yaml:"inherit,omitempty" json:"inherit,omitempty"`
	LegendPosition string               `yaml:"legend_position,omitempty" json:"legend_position,omitempty"`
	Colors         []string             `yaml:"colors,omitempty" json:"colors,omitempty"`
	Tooltips       maybe.Maybe[bool]    `yaml:"tooltips,omitempty" json:"tooltips,omitzero"`
	DataLabels     bool                 `yaml:"data_labels,omitempty" json:"data_labels,omitempty"`
	DataMarkers    maybe.Maybe[bool]    `yaml:"data_markers,omitempty" json:"data_markers,omitzero"`
	Background     string               `yaml:"background,omitempty" json:"background,omitempty"`
	Width          maybe.Maybe[int]     `yaml:"width,omitempty" json:"width,omitzero"`
	Height         maybe.Maybe[int]     `yaml:"height,omitempty" json:"height,omitzero"`
	Gauge          *Gauge               `yaml:"gauge,omitempty" json:"gauge,omitempty"`
	RawOptions     map[string]any       `yaml:"raw_options,omitempty" json:"raw_options,omitempty"`
}

// Color returns the palette color for position i, or "" when the palette
// is shorter.
func (s Spec) Color(i int) string {
	if i < 0 || i >= len(s.Colors) {
		return ""
	}
	return s.Colors[i]
}

const (
	AxisPrimary   = "primary"
	AxisSecondary = "secondary"
)

// Series is one line, bar set or slice set. Data entries are scalars,
// [label, value] pairs or, for scatter charts, [x, y] pairs.
type Series struct {
	Title      string `yaml:"title" json:"title"`
	Color      string `yaml:"color,omitempty" json:"color,omitempty"`
	Type       Type   `yaml:"type,omitempty" json:"type,omitempty"`
	Data       []any  `yaml:"data" json:"data"`
	TargetAxis string `yaml:"target_axis,omitempty" json:"target_axis,omitempty"`
}

type AxisKind string

const (
	AxisX AxisKind = "x"
	AxisY AxisKind = "y"
)

type Axis struct {
	Kind         AxisKind             `yaml:"kind" json:"kind"`
	Title        string               `yaml:"title,omitempty" json:"title,omitempty"`
	Labels       []string             `yaml:"labels,omitempty" json:"labels,omitempty"`
	Min          maybe.Maybe[float64] `yaml:"min,omitempty" json:"min,omitzero"`
	Max          maybe.Maybe[float64] `yaml:"max,omitempty" json:"max,omitzero"`
	Rotation     maybe.Maybe[int]     `yaml:"rotation,omitempty" json:"rotation,omitzero"`
	DecimalCount maybe.Maybe[int]     `yaml:"decimal_count,omitempty" json:"decimal_count,omitzero"`
	Prefix       string               `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix       string               `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Opposite     bool                 `yaml:"opposite,omitempty" json:"opposite,omitempty"`
}

// Input is everything a library adapter needs to build a definition.
type Input struct {
	Spec   Spec
	Series []Series
	Axes   []Axis
}

func (in Input) XAxis() (Axis, bool) {
	return in.axis(func(a Axis) bool { return a.Kind == AxisX })
}

func (in Input) PrimaryYAxis() (Axis, bool) {
	return in.axis(func(a Axis) bool { return a.Kind == AxisY && !a.Opposite })
}

func (in Input) SecondaryYAxis() (Axis, bool) {
	return in.axis(func(a Axis) bool { return a.Kind == AxisY && a.Opposite })
}

// WantsSecondaryAxis reports whether a secondary y-axis was requested,
// either through Spec.Inherit or by supplying an opposite y Axis.
func (in Input) WantsSecondaryAxis() bool {
	if in.Spec.Inherit {
		return true
	}
	_, ok := in.SecondaryYAxis()
	return ok
}

// Labels returns the x-axis labels, or nil.
func (in Input) Labels() []string {
	if x, ok := in.XAxis(); ok {
		return x.Labels
	}
	return nil
}

func (in Input) axis(pred func(Axis) bool) (Axis, bool) {
	for _, a := range in.Axes {
		if pred(a) {
			return a, true
		}
	}
	return Axis{}, false
}
