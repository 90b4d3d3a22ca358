// Package highcharts builds Highcharts chart options.
//
// Highcharts has distinct "column" and "bar" types, draws donuts as pies
// with an inner size and radar charts as polar line charts.
package highcharts

import (
	"fmt"

	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/chart"
)

const Library = "highcharts"

const donutInnerSize = "50%"

var profile = assemble.Profile{
	Library: Library,
	Types: map[chart.Type]string{
		chart.TypeLine:    "line",
		chart.TypeBar:     "bar",
		chart.TypeColumn:  "column",
		chart.TypePie:     "pie",
		chart.TypeDonut:   "pie",
		chart.TypeArea:    "area",
		chart.TypeSpline:  "spline",
		chart.TypeScatter: "scatter",
		chart.TypeGauge:   "gauge",
	},
	Radar:          "line",
	PolarFlag:      true,
	DonutHole:      true,
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

	c := map[string]any{"type": n.Type}
	if n.Polar {
		c["polar"] = true
	}
	c["width"] = in.Spec.Width.Ptr()
	c["height"] = in.Spec.Height.Ptr()
	if in.Spec.Background != "" {
		c["backgroundColor"] = in.Spec.Background
	}

	def := map[string]any{
		"chart":   c,
		"title":   map[string]any{"text": in.Spec.Title},
		"credits": map[string]any{"enabled": false},
		"legend":  legend(in.Spec.LegendPosition),
		"tooltip": map[string]any{"enabled": in.Spec.Tooltips.Ptr()},
	}
	if len(in.Spec.Colors) > 0 {
		def["colors"] = in.Spec.Colors
	}

	plot := map[string]any{}
	def["plotOptions"] = plot
	seriesOptions := map[string]any{}
	plot["series"] = seriesOptions
	if in.Spec.DataLabels {
		seriesOptions["dataLabels"] = map[string]any{"enabled": true}
	}
	if in.Spec.DataMarkers.IsValid() {
		seriesOptions["marker"] = map[string]any{"enabled": in.Spec.DataMarkers.Value()}
	}

	if series.Pie != nil {
		pie := map[string]any{}
		if n.Hole {
			pie["innerSize"] = donutInnerSize
		}
		plot["pie"] = pie
		def["series"] = []any{pieSeries(in, series.Pie)}
		return def, nil
	}

	if series.Groups != nil {
		seriesOptions["stacking"] = "normal"
	}

	out := make([]any, len(series.Columns))
	for i, col := range series.Columns {
		out[i] = seriesEntry(col, series.Stack(col.Title))
	}
	def["series"] = out

	if n.Type == "gauge" {
		def["pane"] = map[string]any{"startAngle": -150, "endAngle": 150}
		def["yAxis"] = []any{gaugeAxis(in.Spec.Gauge)}
		return def, nil
	}

	if axes.X != nil {
		def["xAxis"] = []any{xAxis(axes.X)}
		y := make([]any, len(axes.Y))
		for i, a := range axes.Y {
			y[i] = yAxis(a)
		}
		def["yAxis"] = y
	}

	return def, nil
}

func seriesEntry(col assemble.Column, stack string) map[string]any {
	s := map[string]any{"name": col.Title}
	if stack != "" {
		s["stack"] = stack
	}
	if col.Color != "" {
		s["color"] = col.Color
	}
	if col.Type != nil {
		s["type"] = col.Type.Type
	}
	if col.Secondary {
		s["yAxis"] = 1
	}

	data := make([]any, len(col.Values))
	for i, v := range col.Values {
		if col.Scatter {
			data[i] = []any{assemble.NumberOrNil(col.X[i]), assemble.NumberOrNil(v)}
		} else {
			data[i] = assemble.NumberOrNil(v)
		}
	}
	s["data"] = data

	return s
}

// pieSeries keeps the slice names with the points, external labels
// included: Highcharts pies don't read category labels.
func pieSeries(in chart.Input, pie *assemble.PieDataset) map[string]any {
	s := map[string]any{"type": "pie"}
	if len(in.Series) > 0 {
		s["name"] = assemble.SeriesTitle(in.Series[0], 0)
	}

	data := make([]any, len(pie.Slices))
	for i, slice := range pie.Slices {
		if slice.Color != "" {
			data[i] = map[string]any{"name": slice.Label, "y": assemble.NumberOrNil(slice.Value), "color": slice.Color}
		} else {
			data[i] = []any{slice.Label, assemble.NumberOrNil(slice.Value)}
		}
	}
	s["data"] = data

	return s
}

// Axis titles are always written: an empty text hides the Highcharts
// default title.
func xAxis(x *assemble.XAxis) map[string]any {
	labels := map[string]any{}
	if x.Rotation != 0 {
		labels["rotation"] = x.Rotation
	}
	if x.LabelAlign != "" {
		labels["align"] = x.LabelAlign
	}
	return map[string]any{
		"categories": x.Labels,
		"title":      map[string]any{"text": x.Title},
		"min":        x.Min,
		"max":        x.Max,
		"labels":     labels,
	}
}

func yAxis(y assemble.YAxis) map[string]any {
	labels := map[string]any{}
	if y.Rotation != 0 {
		labels["rotation"] = y.Rotation
	}
	if y.Format != nil {
		labels["format"] = Format(*y.Format)
	}
	a := map[string]any{
		"title":  map[string]any{"text": y.Title},
		"min":    y.Min,
		"max":    y.Max,
		"labels": labels,
	}
	if y.Opposite {
		a["opposite"] = true
	}
	return a
}

// Format renders a number format as a Highcharts label format string,
// e.g. "$ {value:.2f}".
func Format(f assemble.NumberFormat) string {
	value := "{value}"
	if f.Decimals != nil {
		value = fmt.Sprintf("{value:.%df}", *f.Decimals)
	}
	return f.Prefix + value + f.Suffix
}

func gaugeAxis(g *chart.Gauge) map[string]any {
	if g == nil {
		return map[string]any{}
	}
	bands := make([]any, len(g.Bands))
	for i, b := range g.Bands {
		bands[i] = map[string]any{"from": b.From, "to": b.To, "color": b.Color}
	}
	return map[string]any{
		"min":       g.Min.Ptr(),
		"max":       g.Max.Ptr(),
		"plotBands": bands,
	}
}

func legend(position string) map[string]any {
	switch position {
	case chart.LegendNone:
		return map[string]any{"enabled": false}
	case chart.LegendTop, chart.LegendBottom:
		return map[string]any{"enabled": true, "align": "center", "verticalAlign": position, "layout": "horizontal"}
	case chart.LegendLeft, chart.LegendRight:
		return map[string]any{"enabled": true, "align": position, "verticalAlign": "middle", "layout": "vertical"}
	}
	return nil
}
