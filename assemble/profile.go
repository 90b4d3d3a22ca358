// Package assemble turns a chart.Input into library-neutral building
// blocks (normalized types, data columns, axes) that the library
// adapters shape into their own definitions.
package assemble

import (
	"fmt"

	"github.com/angas/chartdef-go/chart"
)

// BarEncoding is how a library tells horizontal bars from vertical
// columns.
type BarEncoding int

const (
	// DistinctTypes: bar and column have their own type strings.
	DistinctTypes BarEncoding = iota
	// RotateFlag: a single bar type, horizontal bars set a chart-level
	// rotation flag.
	RotateFlag
)

// Profile describes how one charting library names and draws chart types.
// A profile is decided once per library, never per call.
type Profile struct {
	Library string
	Types   map[chart.Type]string
	// Radar is the type used for radar and polar charts, "" when the
	// library can't draw them.
	Radar string
	// PolarFlag marks radar charts as the Radar type plus a polar flag.
	PolarFlag bool
	// DonutHole draws donuts as the pie type with an inner radius.
	DonutHole      bool
	AreaAsFill     bool
	SplineAsSmooth bool
	Bars           BarEncoding
	// BarInvertsAxes is set when the library's horizontal bar primitive
	// puts the category axis vertically.
	BarInvertsAxes bool
}

type Flags struct {
	Polar            bool
	IsSeriesOverride bool
}

// Normalized is a chart type expressed in one library's terms.
type Normalized struct {
	Type string
	// Rotated asks for the chart-level rotate flag (RotateFlag libraries).
	Rotated bool
	// Horizontal is set for bar charts whatever the encoding.
	Horizontal bool
	Polar      bool
	Hole       bool
	Fill       bool
	Smooth     bool
}

// Normalize maps a chart type to the library's type. It fails with
// chart.ErrUnsupportedChartType when the library has no equivalent.
func (p Profile) Normalize(t chart.Type, f Flags) (Normalized, error) {
	t, err := chart.ParseType(string(t))
	if err != nil {
		return Normalized{}, err
	}

	if f.IsSeriesOverride && (t.IsPieLike() || t == chart.TypeGauge) {
		return Normalized{}, fmt.Errorf("%w: %s can't be used for a single series", chart.ErrUnsupportedChartType, t)
	}

	if f.Polar || t == chart.TypeRadar {
		if p.Radar == "" {
			return Normalized{}, fmt.Errorf("%w: %s has no radar chart", chart.ErrUnsupportedChartType, p.Library)
		}
		return Normalized{Type: p.Radar, Polar: p.PolarFlag}, nil
	}

	name, ok := p.Types[t]
	if !ok {
		return Normalized{}, fmt.Errorf("%w: %s has no %s chart", chart.ErrUnsupportedChartType, p.Library, t)
	}

	n := Normalized{Type: name}
	switch t {
	case chart.TypeBar:
		if !f.IsSeriesOverride {
			n.Horizontal = true
			n.Rotated = p.Bars == RotateFlag
		}
	case chart.TypeDonut:
		n.Hole = p.DonutHole
	case chart.TypeArea:
		n.Fill = p.AreaAsFill
	case chart.TypeSpline:
		n.Smooth = p.SplineAsSmooth
	}
	return n, nil
}
