package render

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/definition"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func lineInput() chart.Input {
	return chart.Input{
		Spec: chart.Spec{Type: chart.TypeLine, Title: "Temperature"},
		Series: []chart.Series{
			{Title: "Indoor", Data: []any{21, 22}},
			{Title: "Outdoor", Data: []any{4, "<i>6</i>"}},
		},
		Axes: []chart.Axis{{Kind: chart.AxisX, Labels: []string{"Mon", "Tue"}}},
	}
}

func TestLibraries(t *testing.T) {
	want := []string{"billboard", "chartjs", "highcharts"}
	if diff := cmp.Diff(want, Default().Libraries()); diff != "" {
		t.Errorf("libraries mismatch (-want +got):\n%s", diff)
	}
}

func TestSupports(t *testing.T) {
	r := Default()
	tests := []struct {
		library string
		typ     chart.Type
		want    bool
	}{
		{"billboard", chart.TypeGauge, true},
		{"chartjs", chart.TypeGauge, false},
		{"Highcharts", chart.TypeRadar, true},
		{"unknown", chart.TypeLine, false},
	}
	for _, tt := range tests {
		if got := r.Supports(tt.library, tt.typ); got != tt.want {
			t.Errorf("Supports(%s, %s) = %v, wanted %v", tt.library, tt.typ, got, tt.want)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		library string
		in      chart.Input
		want    error
	}{
		{"unknown library", "plotly", lineInput(), ErrUnknownLibrary},
		{"no series", "billboard", chart.Input{Spec: chart.Spec{Type: chart.TypeLine}}, chart.ErrMissingData},
		{"gauge on chartjs", "chartjs", chart.Input{
			Spec:   chart.Spec{Type: chart.TypeGauge},
			Series: []chart.Series{{Data: []any{1}}},
		}, chart.ErrUnsupportedChartType},
		{"ambiguous secondary", "highcharts", chart.Input{
			Spec:   chart.Spec{Type: chart.TypeLine, Inherit: true},
			Series: []chart.Series{{Data: []any{1}}, {Data: []any{2}}, {Data: []any{3}}},
		}, chart.ErrAmbiguousSecondaryAxis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := r.Render(tt.library, tt.in, Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if def != nil {
				t.Errorf("no partial output expected, got %v", def)
			}
		})
	}
}

func TestRenderRawOptions(t *testing.T) {
	in := lineInput()
	in.Spec.LegendPosition = chart.LegendRight
	in.Spec.RawOptions = map[string]any{
		"legend":  map[string]any{"layout": "horizontal"},
		"title":   map[string]any{"text": nil},
		"credits": map[string]any{"enabled": true},
	}

	def, err := Default().Render("highcharts", in, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLegend := map[string]any{"enabled": true, "align": "right", "verticalAlign": "middle", "layout": "horizontal"}
	if diff := cmp.Diff(wantLegend, def["legend"]); diff != "" {
		t.Errorf("legend mismatch (-want +got):\n%s", diff)
	}
	if _, ok := def["title"]; ok {
		t.Errorf("a null raw option should trim the generated title, got %v", def["title"])
	}
	if diff := cmp.Diff(map[string]any{"enabled": true}, def["credits"]); diff != "" {
		t.Errorf("credits mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderStrictMerge(t *testing.T) {
	in := lineInput()
	in.Spec.RawOptions = map[string]any{"data": "broken"}

	def, err := Default().Render("billboard", in, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := def["data"].(map[string]any); !ok {
		t.Errorf("the generated map should win over a raw scalar, got %v", def["data"])
	}

	_, err = Default().Render("billboard", in, Options{StrictMerge: true})
	if !errors.Is(err, definition.ErrIncompatibleMergeShape) {
		t.Errorf("expected ErrIncompatibleMergeShape, got %v", err)
	}
}

func TestRenderTrimsOnce(t *testing.T) {
	r := Default()
	for _, library := range r.Libraries() {
		t.Run(library, func(t *testing.T) {
			def, err := r.Render(library, lineInput(), Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(definition.Trim(def), def); diff != "" {
				t.Errorf("rendered definition is not trimmed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	b, err := Default().RenderJSON("chartjs", lineInput(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Type string `json:"type"`
		Data struct {
			Labels   []string `json:"labels"`
			Datasets []struct {
				Label string     `json:"label"`
				Data  []*float64 `json:"data"`
			} `json:"datasets"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Type != "line" || len(got.Data.Datasets) != 2 {
		t.Fatalf("unexpected definition %s", b)
	}
	if v := got.Data.Datasets[1].Data[1]; v == nil || *v != 6 {
		t.Errorf("markup should be stripped from values, got %v", v)
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := Default()
	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		for _, library := range r.Libraries() {
			wg.Add(1)
			go func(library string) {
				defer wg.Done()
				if _, err := r.Render(library, lineInput(), Options{}); err != nil {
					errs <- err
				}
			}(library)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
}
