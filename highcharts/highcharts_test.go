package highcharts

import (
	"testing"

	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/definition"
	"github.com/angas/chartdef-go/types/maybe"
	"github.com/google/go-cmp/cmp"
)

func build(t *testing.T, in chart.Input) map[string]any {
	t.Helper()
	out, err := New().Build(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def, err := definition.FromStruct(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return definition.Trim(def)
}

func TestFormat(t *testing.T) {
	two := 2
	tests := []struct {
		name   string
		format assemble.NumberFormat
		want   string
	}{
		{"prefix", assemble.NumberFormat{Prefix: "$"}, "${value}"},
		{"suffix and decimals", assemble.NumberFormat{Suffix: " kWh", Decimals: &two}, "{value:.2f} kWh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.format); got != tt.want {
				t.Errorf("got %q, wanted %q", got, tt.want)
			}
		})
	}
}

func TestBuildStackedColumns(t *testing.T) {
	def := build(t, chart.Input{
		Spec: chart.Spec{Type: chart.TypeColumn, Stacking: true},
		Series: []chart.Series{
			{Title: "S1", Data: []any{1, 2, 3}},
			{Title: "S2", Data: []any{4, 5, 6}},
		},
		Axes: []chart.Axis{{Kind: chart.AxisX, Labels: []string{"Jan", "Feb", "Mar"}}},
	})

	want := map[string]any{
		"chart":       map[string]any{"type": "column"},
		"title":       map[string]any{"text": ""},
		"credits":     map[string]any{"enabled": false},
		"plotOptions": map[string]any{"series": map[string]any{"stacking": "normal"}},
		"series": []any{
			map[string]any{"name": "S1", "stack": "stack-0", "data": []any{1.0, 2.0, 3.0}},
			map[string]any{"name": "S2", "stack": "stack-0", "data": []any{4.0, 5.0, 6.0}},
		},
		"xAxis": []any{map[string]any{
			"categories": []any{"Jan", "Feb", "Mar"},
			"title":      map[string]any{"text": ""},
		}},
		"yAxis": []any{map[string]any{
			"title": map[string]any{"text": ""},
		}},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDonut(t *testing.T) {
	def := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypeDonut, Colors: []string{"#a"}},
		Series: []chart.Series{{Title: "S1", Data: []any{[]any{"A", 10}, []any{"B", 20}}}},
	})

	if got := def["chart"].(map[string]any)["type"]; got != "pie" {
		t.Errorf("donuts are pies, got %v", got)
	}
	wantPlot := map[string]any{"pie": map[string]any{"innerSize": "50%"}}
	if diff := cmp.Diff(wantPlot, def["plotOptions"]); diff != "" {
		t.Errorf("plotOptions mismatch (-want +got):\n%s", diff)
	}
	wantSeries := []any{map[string]any{
		"type": "pie",
		"name": "S1",
		"data": []any{
			map[string]any{"name": "A", "y": 10.0, "color": "#a"},
			[]any{"B", 20.0},
		},
	}}
	if diff := cmp.Diff(wantSeries, def["series"]); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	if _, ok := def["xAxis"]; ok {
		t.Errorf("pie charts have no axes")
	}
}

func TestBuildPolar(t *testing.T) {
	def := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypeArea, Polar: true},
		Series: []chart.Series{{Title: "S", Data: []any{1, 2}}},
	})

	if diff := cmp.Diff(map[string]any{"type": "line", "polar": true}, def["chart"]); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPolarPie(t *testing.T) {
	def := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypePie, Polar: true},
		Series: []chart.Series{{Title: "S", Data: []any{[]any{"A", 10}, []any{"B", 20}}}},
		Axes:   []chart.Axis{{Kind: chart.AxisX, Labels: []string{"A", "B"}}},
	})

	if diff := cmp.Diff(map[string]any{"type": "line", "polar": true}, def["chart"]); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}
	wantSeries := []any{map[string]any{"name": "S", "data": []any{10.0, 20.0}}}
	if diff := cmp.Diff(wantSeries, def["series"]); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	if _, ok := def["xAxis"]; !ok {
		t.Errorf("polar charts have axes")
	}
}

func TestBuildSecondaryAxis(t *testing.T) {
	def := build(t, chart.Input{
		Spec: chart.Spec{Type: chart.TypeBar, Inherit: true},
		Series: []chart.Series{
			{Title: "Temp", Data: []any{1}},
			{Title: "Rain", Type: chart.TypeLine, Data: []any{2}},
		},
		Axes: []chart.Axis{
			{Kind: chart.AxisX, Labels: []string{"a"}, Rotation: maybe.Some(90)},
			{Kind: chart.AxisY, Title: "°C", DecimalCount: maybe.Some(1), Max: maybe.Some(40.0)},
		},
	})

	wantY := []any{
		map[string]any{
			"title":  map[string]any{"text": "°C"},
			"max":    40.0,
			"labels": map[string]any{"format": "{value:.1f}"},
		},
		map[string]any{
			"title":    map[string]any{"text": ""},
			"max":      40.0,
			"labels":   map[string]any{"format": "{value:.1f}"},
			"opposite": true,
		},
	}
	if diff := cmp.Diff(wantY, def["yAxis"]); diff != "" {
		t.Errorf("yAxis mismatch (-want +got):\n%s", diff)
	}

	wantX := map[string]any{"rotation": 90.0, "align": "left"}
	if diff := cmp.Diff(wantX, def["xAxis"].([]any)[0].(map[string]any)["labels"]); diff != "" {
		t.Errorf("xAxis labels mismatch (-want +got):\n%s", diff)
	}

	rain := def["series"].([]any)[1].(map[string]any)
	if rain["yAxis"] != 1.0 || rain["type"] != "line" {
		t.Errorf("unexpected secondary series %v", rain)
	}
}

func TestBuildGauge(t *testing.T) {
	def := build(t, chart.Input{
		Spec: chart.Spec{
			Type:  chart.TypeGauge,
			Gauge: &chart.Gauge{Min: maybe.Some(0.0), Max: maybe.Some(200.0), Bands: []chart.Band{{From: 0, To: 120, Color: "#55BF3B"}}},
		},
		Series: []chart.Series{{Title: "Speed", Data: []any{80}}},
	})

	wantY := []any{map[string]any{
		"min":       0.0,
		"max":       200.0,
		"plotBands": []any{map[string]any{"from": 0.0, "to": 120.0, "color": "#55BF3B"}},
	}}
	if diff := cmp.Diff(wantY, def["yAxis"]); diff != "" {
		t.Errorf("yAxis mismatch (-want +got):\n%s", diff)
	}
	if _, ok := def["pane"]; !ok {
		t.Errorf("gauge charts need a pane")
	}
}

func TestBuildOptions(t *testing.T) {
	def := build(t, chart.Input{
		Spec: chart.Spec{
			Type:           chart.TypeScatter,
			LegendPosition: chart.LegendLeft,
			Tooltips:       maybe.Some(true),
			DataLabels:     true,
			Height:         maybe.Some(300),
		},
		Series: []chart.Series{{Title: "P", Data: []any{[]any{1, nil}}}},
	})

	tests := []struct {
		key  string
		want any
	}{
		{"legend", map[string]any{"enabled": true, "align": "left", "verticalAlign": "middle", "layout": "vertical"}},
		{"tooltip", map[string]any{"enabled": true}},
		{"chart", map[string]any{"type": "scatter", "height": 300.0}},
		{"plotOptions", map[string]any{"series": map[string]any{"dataLabels": map[string]any{"enabled": true}}}},
		{"series", []any{map[string]any{"name": "P", "data": []any{[]any{1.0, nil}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, def[tt.key]); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}
}
