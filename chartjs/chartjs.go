// Package chartjs builds Chart.js chart configurations.
//
// Chart.js tells bars from columns by type string: column charts are
// "bar" and bar charts are "horizontalBar", the Chart.js 2 name. Bar
// charts also carry indexAxis "y" so that Chart.js 3 and later, which
// dropped horizontalBar, draw them horizontally once the type is mapped
// to "bar". Scales and plugins use the Chart.js 3 layout. Areas and
// splines are line charts with fill and tension set. There is no gauge
// chart.
package chartjs

import (
	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/chart"
)

const Library = "chartjs"

const (
	ScaleX         = "x"
	ScaleY         = "y"
	ScaleSecondary = "y2"
	ScaleRadial    = "r"
)

const smoothTension = 0.4

var profile = assemble.Profile{
	Library: Library,
	Types: map[chart.Type]string{
		chart.TypeLine:    "line",
		chart.TypeBar:     "horizontalBar",
		chart.TypeColumn:  "bar",
		chart.TypePie:     "pie",
		chart.TypeDonut:   "doughnut",
		chart.TypeArea:    "line",
		chart.TypeSpline:  "line",
		chart.TypeScatter: "scatter",
	},
	Radar:          "radar",
	AreaAsFill:     true,
	SplineAsSmooth: true,
	Bars:           assemble.DistinctTypes,
	BarInvertsAxes: true,
}

type Adapter struct{}

func New() Adapter {
	return Adapter{}
}

func (Adapter) Name() string {
	return Library
}

func (Adapter) Profile() assemble.Profile {
	return profile
}

// Build returns a Chart.
func (Adapter) Build(in chart.Input) (any, error) {
	n, err := profile.Normalize(in.Spec.Type, assemble.Flags{Polar: in.Spec.Polar})
	if err != nil {
		return nil, err
	}

	series, err := assemble.Series(profile, in)
	if err != nil {
		return nil, err
	}

	axes, err := assemble.Axes(profile, in)
	if err != nil {
		return nil, err
	}

	c := NewChart(n.Type, in.Spec.Title).WithOptions(in.Spec)
	if n.Horizontal {
		c.Options.IndexAxis = ScaleY
	}

	if series.Pie != nil {
		c.Data.Labels = series.Pie.Labels()
		c.Data.Datasets = []ChartDataset{pieDataset(in, series.Pie)}
		return c, nil
	}

	stacked := series.Groups != nil
	for _, col := range series.Columns {
		c.Data.Datasets = append(c.Data.Datasets, dataset(col, n, series.Stack(col.Title)))
	}

	if axes.X == nil {
		return c, nil
	}
	if n.Type != "scatter" {
		c.Data.Labels = axes.X.Labels
	}
	if n.Type == profile.Radar {
		y := axes.Y[0]
		c.Options.Scales = map[string]ChartScale{
			ScaleRadial: NewScale("radialLinear").WithRange(y.Min, y.Max),
		}
		return c, nil
	}
	c.Options.Scales = scales(axes, stacked, n.Type == "scatter")

	return c, nil
}

func NewChart(chartType string, title string) Chart {
	c := Chart{
		Type: chartType,
		Data: ChartData{
			Datasets: []ChartDataset{},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: true},
				Title:  ChartTitle{Display: false},
			},
		},
	}

	if title != "" {
		c.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return c
}

// WithOptions applies the chart-wide display options of a spec.
func (c Chart) WithOptions(spec chart.Spec) Chart {
	switch spec.LegendPosition {
	case "":
	case chart.LegendNone:
		c.Options.Plugins.Legend = ChartLegend{Display: false}
	default:
		c.Options.Plugins.Legend = ChartLegend{Display: true, Position: spec.LegendPosition}
	}

	if spec.Tooltips.IsValid() {
		c.Options.Plugins.Tooltip = &ChartTooltip{Enabled: spec.Tooltips.Value()}
	}
	if spec.DataLabels {
		c.Options.Plugins.DataLabels = &ChartDataLabels{Display: true}
	}
	if spec.DataMarkers.IsValid() {
		radius := 0
		if spec.DataMarkers.Value() {
			radius = 3
		}
		c.Options.Elements = &ChartElements{Point: ChartPointElement{Radius: radius}}
	}

	return c
}

func NewScale(scaleType string) ChartScale {
	return ChartScale{Type: scaleType, Display: true}
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	if title == "" {
		return cs
	}
	cs.Title = &ChartScaleTitle{Display: true, Text: title}
	return cs
}

func (cs ChartScale) WithRange(min, max *float64) ChartScale {
	cs.Min = min
	cs.Max = max
	return cs
}

func (cs ChartScale) WithRotation(degrees int, align string) ChartScale {
	if degrees == 0 {
		return cs
	}
	cs.Ticks = cs.ticks()
	cs.Ticks.MinRotation = &degrees
	cs.Ticks.MaxRotation = &degrees
	if align == assemble.AlignLeft {
		cs.Ticks.Align = "start"
	}
	return cs
}

func (cs ChartScale) WithFormat(f *assemble.NumberFormat) ChartScale {
	if f == nil {
		return cs
	}
	cs.Ticks = cs.ticks()
	cs.Ticks.Format = &ChartNumberFormat{Prefix: f.Prefix, Suffix: f.Suffix, Decimals: f.Decimals}
	return cs
}

func (cs ChartScale) ticks() *ChartTicks {
	if cs.Ticks == nil {
		return &ChartTicks{}
	}
	t := *cs.Ticks
	return &t
}

func dataset(col assemble.Column, chartType assemble.Normalized, stack string) ChartDataset {
	ds := ChartDataset{
		Label:       col.Title,
		BorderWidth: 1,
	}

	effective := chartType
	if col.Type != nil {
		effective = *col.Type
		ds.Type = col.Type.Type
	}

	if col.Color != "" {
		ds.BorderColor = col.Color
		ds.BackgroundColor = col.Color
	}
	if effective.Fill {
		fill := true
		ds.Fill = &fill
	}
	if effective.Smooth {
		ds.Tension = smoothTension
	}
	if stack != "" {
		ds.Stack = stack
	}
	if col.Secondary {
		ds.YAxisID = ScaleSecondary
	}

	if col.Scatter {
		points := make([]ChartPoint, len(col.Values))
		for i := range col.Values {
			points[i] = ChartPoint{X: col.X[i], Y: col.Values[i]}
		}
		ds.Data = points
	} else {
		ds.Data = col.Values
	}

	return ds
}

func pieDataset(in chart.Input, pie *assemble.PieDataset) ChartDataset {
	ds := ChartDataset{Data: pie.Values()}
	if len(in.Series) > 0 {
		ds.Label = assemble.SeriesTitle(in.Series[0], 0)
	}

	colors := make([]string, len(pie.Slices))
	colored := false
	for i, s := range pie.Slices {
		colors[i] = s.Color
		colored = colored || s.Color != ""
	}
	if colored {
		ds.BackgroundColor = colors
	}

	return ds
}

// scales keys the category scale "x" and the value scale "y", swapped
// when horizontal bars draw the categories vertically.
func scales(axes assemble.AxisOutput, stacked, scatter bool) map[string]ChartScale {
	catKey, valKey := ScaleX, ScaleY
	if axes.X.Vertical {
		catKey, valKey = ScaleY, ScaleX
	}

	catType := "category"
	if scatter {
		catType = "linear"
	}

	cat := NewScale(catType).
		WithTitle(axes.X.Title).
		WithRange(axes.X.Min, axes.X.Max).
		WithRotation(axes.X.Rotation, axes.X.LabelAlign)
	cat.Stacked = stacked

	y := axes.Y[0]
	val := NewScale("linear").
		WithTitle(y.Title).
		WithRange(y.Min, y.Max).
		WithRotation(y.Rotation, "").
		WithFormat(y.Format)
	val.Stacked = stacked

	out := map[string]ChartScale{catKey: cat, valKey: val}

	if y2, ok := axes.Secondary(); ok {
		sec := NewScale("linear").
			WithTitle(y2.Title).
			WithRange(y2.Min, y2.Max).
			WithRotation(y2.Rotation, "").
			WithFormat(y2.Format)
		sec.Position = "right"
		if axes.X.Vertical {
			sec.Position = "top"
		}
		out[ScaleSecondary] = sec
	}

	return out
}
