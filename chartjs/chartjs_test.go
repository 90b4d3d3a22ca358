package chartjs

import (
	"errors"
	"testing"

	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/definition"
	"github.com/angas/chartdef-go/types/maybe"
	"github.com/google/go-cmp/cmp"
)

func build(t *testing.T, in chart.Input) Chart {
	t.Helper()
	out, err := New().Build(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.(Chart)
}

func TestTypes(t *testing.T) {
	tests := []struct {
		typ  chart.Type
		want string
	}{
		{chart.TypeColumn, "bar"},
		{chart.TypeBar, "horizontalBar"},
		{chart.TypeDonut, "doughnut"},
		{chart.TypeArea, "line"},
		{chart.TypeSpline, "line"},
		{chart.TypeRadar, "radar"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			n, err := profile.Normalize(tt.typ, assemble.Flags{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Type != tt.want {
				t.Errorf("got %q, wanted %q", n.Type, tt.want)
			}
		})
	}

	if _, err := profile.Normalize(chart.TypeGauge, assemble.Flags{}); !errors.Is(err, chart.ErrUnsupportedChartType) {
		t.Errorf("gauge should be unsupported, got %v", err)
	}
}

func TestBuildStackedColumns(t *testing.T) {
	c := build(t, chart.Input{
		Spec: chart.Spec{Type: chart.TypeColumn, Stacking: true},
		Series: []chart.Series{
			{Title: "S1", Data: []any{1, 2, 3}},
			{Title: "S2", Data: []any{4, 5, 6}},
		},
		Axes: []chart.Axis{{Kind: chart.AxisX, Labels: []string{"Jan", "Feb", "Mar"}}},
	})

	if c.Type != "bar" {
		t.Errorf("got type %q, wanted bar", c.Type)
	}
	if diff := cmp.Diff([]string{"Jan", "Feb", "Mar"}, c.Data.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if len(c.Data.Datasets) != 2 {
		t.Fatalf("got %d datasets, wanted 2", len(c.Data.Datasets))
	}
	for _, ds := range c.Data.Datasets {
		if ds.Stack != "stack-0" {
			t.Errorf("%s: stacked datasets share a stack, got %q", ds.Label, ds.Stack)
		}
		if got := len(ds.Data.([]*float64)); got != 3 {
			t.Errorf("%s: got %d values, wanted 3", ds.Label, got)
		}
	}
	for _, key := range []string{ScaleX, ScaleY} {
		if !c.Options.Scales[key].Stacked {
			t.Errorf("scale %s should be stacked", key)
		}
	}
}

func TestBuildHorizontalBarScales(t *testing.T) {
	c := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypeBar},
		Series: []chart.Series{{Title: "S1", Data: []any{1}}},
		Axes: []chart.Axis{
			{Kind: chart.AxisX, Labels: []string{"a"}, Rotation: maybe.Some(30)},
			{Kind: chart.AxisY, Prefix: "$", DecimalCount: maybe.Some(1)},
		},
	})

	if c.Type != "horizontalBar" || c.Options.IndexAxis != ScaleY {
		t.Errorf("got type %q with index axis %q, wanted horizontalBar on y", c.Type, c.Options.IndexAxis)
	}

	cat := c.Options.Scales[ScaleY]
	if cat.Type != "category" {
		t.Fatalf("categories should be on the y scale, got %+v", c.Options.Scales)
	}
	thirty := 30
	wantTicks := &ChartTicks{MinRotation: &thirty, MaxRotation: &thirty, Align: "start"}
	if diff := cmp.Diff(wantTicks, cat.Ticks); diff != "" {
		t.Errorf("ticks mismatch (-want +got):\n%s", diff)
	}

	one := 1
	val := c.Options.Scales[ScaleX]
	if diff := cmp.Diff(&ChartNumberFormat{Prefix: "$", Decimals: &one}, val.Ticks.Format); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPie(t *testing.T) {
	c := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypePie, Colors: []string{"#a", "#b"}},
		Series: []chart.Series{{Title: "S1", Data: []any{[]any{"A", 10}, []any{"B", 20}}}},
	})

	if diff := cmp.Diff([]string{"A", "B"}, c.Data.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	ds := c.Data.Datasets[0]
	ten, twenty := 10.0, 20.0
	if diff := cmp.Diff([]*float64{&ten, &twenty}, ds.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"#a", "#b"}, ds.BackgroundColor); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if c.Options.Scales != nil {
		t.Errorf("pie charts have no scales")
	}
}

func TestBuildPolarDonut(t *testing.T) {
	c := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypeDonut, Polar: true},
		Series: []chart.Series{{Title: "S", Data: []any{[]any{"A", 10}, []any{"B", 20}}}},
		Axes:   []chart.Axis{{Kind: chart.AxisX, Labels: []string{"A", "B"}}},
	})

	if c.Type != "radar" {
		t.Errorf("got type %q, wanted radar", c.Type)
	}
	if len(c.Data.Datasets) != 1 || c.Data.Datasets[0].Label != "S" {
		t.Fatalf("got datasets %+v, wanted the one series", c.Data.Datasets)
	}
	if _, ok := c.Options.Scales[ScaleRadial]; !ok {
		t.Errorf("radar charts have a radial scale, got %+v", c.Options.Scales)
	}
}

func TestBuildSecondaryAxis(t *testing.T) {
	c := build(t, chart.Input{
		Spec: chart.Spec{Type: chart.TypeLine},
		Series: []chart.Series{
			{Title: "Temp", Data: []any{1}, TargetAxis: chart.AxisSecondary},
			{Title: "Rain", Type: chart.TypeSpline, Data: []any{2}},
		},
		Axes: []chart.Axis{{Kind: chart.AxisY, Opposite: true, Title: "°C"}},
	})

	if got := c.Data.Datasets[0].YAxisID; got != ScaleSecondary {
		t.Errorf("got yAxisID %q, wanted %q", got, ScaleSecondary)
	}
	if got := c.Data.Datasets[1].YAxisID; got != "" {
		t.Errorf("primary dataset should use the default axis, got %q", got)
	}
	if got := c.Data.Datasets[1].Tension; got != smoothTension {
		t.Errorf("spline override should be smooth, got %v", got)
	}

	y2, ok := c.Options.Scales[ScaleSecondary]
	if !ok {
		t.Fatalf("expected a secondary scale")
	}
	if y2.Position != "right" || y2.Title == nil || y2.Title.Text != "°C" {
		t.Errorf("unexpected secondary scale %+v", y2)
	}
}

func TestBuildScatter(t *testing.T) {
	c := build(t, chart.Input{
		Spec:   chart.Spec{Type: chart.TypeScatter},
		Series: []chart.Series{{Title: "P", Data: []any{[]any{1, 2}}}},
		Axes:   []chart.Axis{{Kind: chart.AxisX, Labels: []string{"ignored"}}},
	})

	one, two := 1.0, 2.0
	if diff := cmp.Diff([]ChartPoint{{X: &one, Y: &two}}, c.Data.Datasets[0].Data); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if c.Data.Labels != nil {
		t.Errorf("scatter charts take x from the points, got labels %v", c.Data.Labels)
	}
	if got := c.Options.Scales[ScaleX].Type; got != "linear" {
		t.Errorf("got x scale %q, wanted linear", got)
	}
}

func TestBuildDefinition(t *testing.T) {
	out, err := New().Build(chart.Input{
		Spec: chart.Spec{
			Type:           chart.TypeArea,
			Title:          "Rain",
			LegendPosition: chart.LegendBottom,
			Tooltips:       maybe.Some(false),
			DataMarkers:    maybe.Some(false),
		},
		Series: []chart.Series{{Title: "mm", Color: "#00f", Data: []any{1, nil}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, err := definition.FromStruct(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def = definition.Trim(def)

	want := map[string]any{
		"type": "line",
		"data": map[string]any{
			"datasets": []any{
				map[string]any{
					"label":           "mm",
					"data":            []any{1.0, nil},
					"backgroundColor": "#00f",
					"borderColor":     "#00f",
					"borderWidth":     1.0,
					"fill":            true,
				},
			},
		},
		"options": map[string]any{
			"responsive": true,
			"plugins": map[string]any{
				"legend":  map[string]any{"display": true, "position": "bottom"},
				"title":   map[string]any{"display": true, "text": "Rain"},
				"tooltip": map[string]any{"enabled": false},
			},
			"scales": map[string]any{
				"x": map[string]any{"type": "category", "display": true},
				"y": map[string]any{"type": "linear", "display": true},
			},
			"elements": map[string]any{"point": map[string]any{"radius": 0.0}},
		},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}
