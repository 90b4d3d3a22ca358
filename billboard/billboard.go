// Package billboard builds Billboard.js chart definitions.
//
// Billboard has a single bar primitive: horizontal bars are bar charts
// with axis.rotated set. Data is keyed by series title, so every column
// starts with its title.
package billboard

import (
	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/chart"
)

const Library = "billboard"

const secondaryAxis = "y2"

var profile = assemble.Profile{
	Library: Library,
	Types: map[chart.Type]string{
		chart.TypeLine:    "line",
		chart.TypeBar:     "bar",
		chart.TypeColumn:  "bar",
		chart.TypePie:     "pie",
		chart.TypeDonut:   "donut",
		chart.TypeArea:    "area",
		chart.TypeSpline:  "spline",
		chart.TypeScatter: "scatter",
		chart.TypeGauge:   "gauge",
	},
	Radar:          "radar",
	Bars:           assemble.RotateFlag,
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

// Build returns the definition as nested maps, ready for merging.
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

	data := map[string]any{"type": n.Type}
	def := map[string]any{
		"data":    data,
		"title":   map[string]any{"text": in.Spec.Title},
		"legend":  legend(in.Spec.LegendPosition),
		"color":   color(in.Spec),
		"size":    map[string]any{"width": in.Spec.Width.Ptr(), "height": in.Spec.Height.Ptr()},
		"tooltip": map[string]any{"show": in.Spec.Tooltips.Ptr()},
		"point":   map[string]any{"show": in.Spec.DataMarkers.Ptr()},
	}
	if in.Spec.Background != "" {
		def["background"] = map[string]any{"color": in.Spec.Background}
	}

	if series.Pie != nil {
		pieData(data, series.Pie)
		def[n.Type] = map[string]any{"label": map[string]any{"show": in.Spec.DataLabels}}
		return def, nil
	}

	columnData(data, series)
	if in.Spec.DataLabels {
		data["labels"] = true
	}

	if n.Type == "gauge" {
		def["gauge"] = gauge(in.Spec.Gauge)
		return def, nil
	}

	if axes.X != nil {
		def["axis"] = axis(axes, n.Type == "scatter")
		if axes.SecondarySeries >= 0 {
			data["axes"] = map[string]any{series.Columns[axes.SecondarySeries].Title: secondaryAxis}
		}
	}

	return def, nil
}

func columnData(data map[string]any, series assemble.SeriesOutput) {
	columns := make([][]any, 0, len(series.Columns))
	colors := map[string]any{}
	types := map[string]any{}
	xs := map[string]any{}

	for _, c := range series.Columns {
		if c.Scatter {
			xKey := c.Title + "_x"
			xs[c.Title] = xKey
			columns = append(columns, column(xKey, c.X))
		}
		columns = append(columns, column(c.Title, c.Values))

		if c.Color != "" {
			colors[c.Title] = c.Color
		}
		if c.Type != nil {
			types[c.Title] = c.Type.Type
		}
	}

	data["columns"] = columns
	data["colors"] = colors
	data["types"] = types
	data["xs"] = xs
	if series.Groups != nil {
		data["groups"] = series.Groups
	}
}

func column(title string, values []*float64) []any {
	col := make([]any, 0, len(values)+1)
	col = append(col, title)
	for _, v := range values {
		col = append(col, assemble.NumberOrNil(v))
	}
	return col
}

// pieData writes one [label, value] column per slice. Billboard keys
// slices by name, so external labels are folded into the columns.
func pieData(data map[string]any, pie *assemble.PieDataset) {
	columns := make([][]any, len(pie.Slices))
	colors := map[string]any{}
	for i, s := range pie.Slices {
		columns[i] = []any{s.Label, assemble.NumberOrNil(s.Value)}
		if s.Color != "" {
			colors[s.Label] = s.Color
		}
	}
	data["columns"] = columns
	data["colors"] = colors
}

func axis(axes assemble.AxisOutput, scatter bool) map[string]any {
	x := axes.X
	xType := "category"
	if scatter {
		xType = "indexed"
	}

	def := map[string]any{
		"rotated": axes.Rotated,
		"x": map[string]any{
			"type":       xType,
			"categories": x.Labels,
			"label":      label(x.Title),
			"min":        x.Min,
			"max":        x.Max,
			"tick":       map[string]any{"rotate": rotation(x.Rotation)},
		},
		"y": yAxis(axes.Y[0]),
	}

	if y2, ok := axes.Secondary(); ok {
		y := yAxis(y2)
		y["show"] = true
		def["y2"] = y
	}

	return def
}

func yAxis(y assemble.YAxis) map[string]any {
	tick := map[string]any{"rotate": rotation(y.Rotation)}
	if y.Format != nil {
		tick["format"] = map[string]any{
			"prefix":   y.Format.Prefix,
			"suffix":   y.Format.Suffix,
			"decimals": y.Format.Decimals,
		}
	}
	return map[string]any{
		"label": label(y.Title),
		"min":   y.Min,
		"max":   y.Max,
		"tick":  tick,
	}
}

func label(text string) map[string]any {
	if text == "" {
		return nil
	}
	return map[string]any{"text": text, "position": "outer-middle"}
}

func rotation(r int) any {
	if r == 0 {
		return nil
	}
	return r
}

func gauge(g *chart.Gauge) map[string]any {
	if g == nil {
		return nil
	}
	return map[string]any{
		"min": g.Min.Ptr(),
		"max": g.Max.Ptr(),
	}
}

// color is the palette, or the band colors with their thresholds for a
// gauge with bands.
func color(spec chart.Spec) map[string]any {
	if spec.Gauge != nil && len(spec.Gauge.Bands) > 0 {
		pattern := make([]string, len(spec.Gauge.Bands))
		values := make([]float64, len(spec.Gauge.Bands))
		for i, b := range spec.Gauge.Bands {
			pattern[i] = b.Color
			values[i] = b.To
		}
		return map[string]any{
			"pattern": pattern,
			"threshold": map[string]any{
				"unit":   "value",
				"values": values,
			},
		}
	}
	if len(spec.Colors) == 0 {
		return nil
	}
	return map[string]any{"pattern": spec.Colors}
}

// legend maps a position onto Billboard's bottom/right/inset layout.
func legend(position string) map[string]any {
	switch position {
	case chart.LegendNone:
		return map[string]any{"show": false}
	case chart.LegendBottom, chart.LegendRight:
		return map[string]any{"show": true, "position": position}
	case chart.LegendTop:
		return map[string]any{"show": true, "position": "inset", "inset": map[string]any{"anchor": "top-right"}}
	case chart.LegendLeft:
		return map[string]any{"show": true, "position": "inset", "inset": map[string]any{"anchor": "top-left"}}
	}
	return nil
}
