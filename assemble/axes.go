package assemble

import (
	"fmt"
	"slices"

	"github.com/angas/chartdef-go/chart"
)

// Rotations are the allowed label rotations in degrees.
var Rotations = []int{0, 30, 45, 60, 90}

const AlignLeft = "left"

type XAxis struct {
	Title    string
	Labels   []string
	Min      *float64
	Max      *float64
	Rotation int
	// LabelAlign is "" for the library default.
	LabelAlign string
	// Vertical is set when the category axis is drawn vertically.
	Vertical bool
}

// NumberFormat is the tick label formatting of a value axis.
type NumberFormat struct {
	Prefix   string
	Suffix   string
	Decimals *int
}

type YAxis struct {
	Title    string
	Min      *float64
	Max      *float64
	Rotation int
	// Format is nil when no formatting was asked for.
	Format   *NumberFormat
	Opposite bool
}

type AxisOutput struct {
	// X is nil for charts without axes.
	X *XAxis
	// Y holds the primary y-axis, followed by the secondary one if any.
	Y []YAxis
	// SecondarySeries is the index of the series drawn against the
	// secondary y-axis, -1 when there is none.
	SecondarySeries int
	Rotated         bool
	Horizontal      bool
}

func (o AxisOutput) Secondary() (YAxis, bool) {
	if len(o.Y) < 2 {
		return YAxis{}, false
	}
	return o.Y[1], true
}

// Axes assembles the axes of a chart. Pie, donut and gauge charts have
// none and give an empty output unless they are drawn polar.
func Axes(p Profile, in chart.Input) (AxisOutput, error) {
	out := AxisOutput{SecondarySeries: -1}

	t, err := chartType(in.Spec)
	if err != nil {
		return AxisOutput{}, err
	}
	if !t.HasAxes() {
		return out, nil
	}

	for i, a := range in.Axes {
		if r := a.Rotation.ValueOrDefault(0); !slices.Contains(Rotations, r) {
			return AxisOutput{}, fmt.Errorf("%w: axis %d (%s) has rotation %d, expected one of %v",
				chart.ErrInvalidRotation, i, a.Kind, r, Rotations)
		}
	}

	n, err := p.Normalize(t, Flags{Polar: in.Spec.Polar})
	if err != nil {
		return AxisOutput{}, err
	}
	out.Rotated = n.Rotated
	out.Horizontal = n.Horizontal

	x, _ := in.XAxis()
	out.X = &XAxis{
		Title:    x.Title,
		Labels:   x.Labels,
		Min:      x.Min.Ptr(),
		Max:      x.Max.Ptr(),
		Rotation: x.Rotation.ValueOrDefault(0),
		Vertical: n.Horizontal && p.BarInvertsAxes,
	}
	if out.X.Rotation != 0 && out.X.Vertical {
		out.X.LabelAlign = AlignLeft
	}

	primary, _ := in.PrimaryYAxis()
	out.Y = []YAxis{yAxis(primary)}

	if in.WantsSecondaryAxis() {
		idx, err := secondarySeries(in)
		if err != nil {
			return AxisOutput{}, err
		}
		sec, ok := in.SecondaryYAxis()
		y2 := inheritYAxis(primary, sec, ok)
		y2.Opposite = true
		out.Y = append(out.Y, y2)
		out.SecondarySeries = idx
	}

	return out, nil
}

func yAxis(a chart.Axis) YAxis {
	return YAxis{
		Title:    a.Title,
		Min:      a.Min.Ptr(),
		Max:      a.Max.Ptr(),
		Rotation: a.Rotation.ValueOrDefault(0),
		Format:   numberFormat(a),
	}
}

func numberFormat(a chart.Axis) *NumberFormat {
	if a.Prefix == "" && a.Suffix == "" && !a.DecimalCount.IsValid() {
		return nil
	}
	return &NumberFormat{
		Prefix:   a.Prefix,
		Suffix:   a.Suffix,
		Decimals: a.DecimalCount.Ptr(),
	}
}

// inheritYAxis builds the secondary axis. Anything the opposite axis does
// not set is taken from the primary one, except the title.
func inheritYAxis(primary, sec chart.Axis, hasSec bool) YAxis {
	if !hasSec {
		y := yAxis(primary)
		y.Title = ""
		return y
	}
	merged := sec
	merged.Min = sec.Min.Or(primary.Min)
	merged.Max = sec.Max.Or(primary.Max)
	merged.Rotation = sec.Rotation.Or(primary.Rotation)
	merged.DecimalCount = sec.DecimalCount.Or(primary.DecimalCount)
	if merged.Prefix == "" {
		merged.Prefix = primary.Prefix
	}
	if merged.Suffix == "" {
		merged.Suffix = primary.Suffix
	}
	return yAxis(merged)
}

// secondarySeries returns the index of the series bound to the secondary
// y-axis, or -1 when none was requested. A secondary axis needs exactly
// two series; picking two out of more would be a guess.
func secondarySeries(in chart.Input) (int, error) {
	targeted := slices.IndexFunc(in.Series, func(s chart.Series) bool { return s.TargetAxis == chart.AxisSecondary })

	if !in.WantsSecondaryAxis() {
		if targeted >= 0 {
			return -1, fmt.Errorf("%w: series %d targets the secondary axis but none was requested",
				chart.ErrInvalidAxes, targeted)
		}
		return -1, nil
	}

	if len(in.Series) != 2 {
		return -1, fmt.Errorf("%w: a secondary y-axis needs exactly 2 series, chart has %d",
			chart.ErrAmbiguousSecondaryAxis, len(in.Series))
	}

	switch {
	case in.Series[0].TargetAxis == chart.AxisSecondary && in.Series[1].TargetAxis == chart.AxisSecondary:
		return -1, fmt.Errorf("%w: both series target the secondary axis", chart.ErrAmbiguousSecondaryAxis)
	case in.Series[0].TargetAxis == chart.AxisSecondary:
		return 0, nil
	default:
		return 1, nil
	}
}
