package assemble

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/convert"
)

// Column is one assembled series of a cartesian, radar or gauge chart.
type Column struct {
	Title string
	// Color is "" when the library should pick one.
	Color string
	// Type is set when the series overrides the chart type.
	Type *Normalized
	// Values holds the y values. For scatter series X holds the matching
	// x values.
	Values    []*float64
	X         []*float64
	Scatter   bool
	Secondary bool
}

type Slice struct {
	Label string
	Value *float64
	Color string
}

// PieDataset is the single ring of slices of a pie or donut chart.
type PieDataset struct {
	Slices []Slice
	// External is set when the slice labels came from the x-axis labels
	// array rather than from the data points themselves.
	External bool
}

// Rows returns the dataset rows. With external labels a row only holds
// the value, the label is carried by the labels array. Otherwise a row
// is [label, value].
func (d PieDataset) Rows() [][]any {
	rows := make([][]any, len(d.Slices))
	for i, s := range d.Slices {
		if d.External {
			rows[i] = []any{NumberOrNil(s.Value)}
		} else {
			rows[i] = []any{s.Label, NumberOrNil(s.Value)}
		}
	}
	return rows
}

func (d PieDataset) Labels() []string {
	labels := make([]string, len(d.Slices))
	for i, s := range d.Slices {
		labels[i] = s.Label
	}
	return labels
}

func (d PieDataset) Values() []*float64 {
	values := make([]*float64, len(d.Slices))
	for i, s := range d.Slices {
		values[i] = s.Value
	}
	return values
}

type SeriesOutput struct {
	Columns []Column
	// Groups is set for stacked charts: one group holding every distinct
	// series title, in series order.
	Groups [][]string
	// Pie is set instead of Columns for pie and donut charts.
	Pie *PieDataset
}

// Stack names the stacking group holding the series title, "" when the
// series isn't stacked.
func (o SeriesOutput) Stack(title string) string {
	for i, g := range o.Groups {
		if slices.Contains(g, title) {
			return fmt.Sprintf("stack-%d", i)
		}
	}
	return ""
}

// Series assembles the data of every series. Output order is input order.
func Series(p Profile, in chart.Input) (SeriesOutput, error) {
	t, err := chartType(in.Spec)
	if err != nil {
		return SeriesOutput{}, err
	}

	if t.IsPieLike() {
		pie, err := pieDataset(in)
		if err != nil {
			return SeriesOutput{}, err
		}
		return SeriesOutput{Pie: pie}, nil
	}

	secondary := -1
	if t.HasAxes() {
		if secondary, err = secondarySeries(in); err != nil {
			return SeriesOutput{}, err
		}
	}

	out := SeriesOutput{Columns: make([]Column, 0, len(in.Series))}
	for i, s := range in.Series {
		if s.Data == nil {
			return SeriesOutput{}, fmt.Errorf("%w: series %d (%q) has no data", chart.ErrMissingData, i, s.Title)
		}

		col := Column{
			Title:     SeriesTitle(s, i),
			Color:     s.Color,
			Secondary: i == secondary,
		}
		if col.Color == "" {
			col.Color = in.Spec.Color(i)
		}

		effective := t
		if s.Type != "" {
			n, err := p.Normalize(s.Type, Flags{Polar: in.Spec.Polar, IsSeriesOverride: true})
			if err != nil {
				return SeriesOutput{}, fmt.Errorf("series %d (%q): %w", i, s.Title, err)
			}
			col.Type = &n
			effective, _ = chart.ParseType(string(s.Type))
		}

		if effective == chart.TypeScatter && !in.Spec.Polar {
			col.Scatter = true
			col.X, col.Values, err = scatterPoints(s, i)
		} else {
			col.Values, err = values(s, i)
		}
		if err != nil {
			return SeriesOutput{}, err
		}

		out.Columns = append(out.Columns, col)
	}

	if in.Spec.Stacking {
		out.Groups = [][]string{distinctTitles(out.Columns)}
	}

	return out, nil
}

// chartType is the type the chart is drawn as. Polar charts are radar
// charts whatever type they declare, pie and gauge included.
func chartType(spec chart.Spec) (chart.Type, error) {
	t, err := chart.ParseType(string(spec.Type))
	if err != nil {
		return "", err
	}
	if spec.Polar {
		return chart.TypeRadar, nil
	}
	return t, nil
}

// SeriesTitle is the series title, or a positional name for untitled
// series so that libraries keying data by name still get unique keys.
func SeriesTitle(s chart.Series, i int) string {
	if s.Title != "" {
		return s.Title
	}
	return fmt.Sprintf("Series %d", i+1)
}

// NumberOrNil unwraps an assembled value for JSON-shaped output.
func NumberOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func values(s chart.Series, i int) ([]*float64, error) {
	out := make([]*float64, len(s.Data))
	for j, d := range s.Data {
		pair, isPair := d.([]any)
		v := d
		switch {
		case !isPair:
		case len(pair) == 2:
			// [label, value]: the x position comes from the axis labels.
			v = pair[1]
		default:
			return nil, fmt.Errorf("%w: series %d (%q) point %d has %d values, expected a value or a [label, value] pair",
				chart.ErrMalformedSeriesData, i, s.Title, j, len(pair))
		}
		if !isScalar(v) {
			return nil, malformedPoint(s, i, j, d)
		}
		out[j] = convert.ToNumber(v)
	}
	return out, nil
}

func scatterPoints(s chart.Series, i int) ([]*float64, []*float64, error) {
	xs := make([]*float64, len(s.Data))
	ys := make([]*float64, len(s.Data))
	for j, d := range s.Data {
		pair, ok := d.([]any)
		if !ok || len(pair) != 2 {
			return nil, nil, fmt.Errorf("%w: series %d (%q) point %d must be an [x, y] pair, got %v",
				chart.ErrMalformedSeriesData, i, s.Title, j, d)
		}
		if !isScalar(pair[0]) || !isScalar(pair[1]) {
			return nil, nil, malformedPoint(s, i, j, d)
		}
		xs[j] = convert.ToNumber(pair[0])
		ys[j] = convert.ToNumber(pair[1])
	}
	return xs, ys, nil
}

// isScalar reports whether v is a single value a point can be coerced
// from. Objects and nested lists are not.
func isScalar(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Pointer:
		_, ok := v.(*float64)
		return ok
	}
	return false
}

func malformedPoint(s chart.Series, i, j int, d any) error {
	return fmt.Errorf("%w: series %d (%q) point %d is not a number or a [label, value] pair, got %v",
		chart.ErrMalformedSeriesData, i, s.Title, j, d)
}

// pieDataset flattens every series into one ring of slices. Labels come
// either from the x-axis labels array (external) or from [label, value]
// points (embedded). When both are given they must agree.
func pieDataset(in chart.Input) (*PieDataset, error) {
	labels := in.Labels()
	ds := &PieDataset{External: len(labels) > 0}

	n := 0
	for i, s := range in.Series {
		if s.Data == nil {
			return nil, fmt.Errorf("%w: series %d (%q) has no data", chart.ErrMissingData, i, s.Title)
		}
		for j, d := range s.Data {
			var slice Slice
			pair, isPair := d.([]any)
			switch {
			case isPair && len(pair) == 2:
				if !isScalar(pair[0]) || !isScalar(pair[1]) {
					return nil, malformedPoint(s, i, j, d)
				}
				slice.Label = convert.ToLabel(pair[0])
				slice.Value = convert.ToNumber(pair[1])
				if ds.External {
					if n >= len(labels) {
						return nil, fmt.Errorf("%w: series %d (%q) point %d has no matching label",
							chart.ErrMalformedSeriesData, i, s.Title, j)
					}
					if slice.Label != labels[n] {
						return nil, fmt.Errorf("%w: series %d (%q) point %d is labelled %q but the labels array says %q",
							chart.ErrMalformedSeriesData, i, s.Title, j, slice.Label, labels[n])
					}
				}
			case isPair:
				return nil, fmt.Errorf("%w: series %d (%q) point %d has %d values, expected [label, value]",
					chart.ErrMalformedSeriesData, i, s.Title, j, len(pair))
			case !isPair && !isScalar(d):
				return nil, malformedPoint(s, i, j, d)
			case ds.External:
				if n >= len(labels) {
					return nil, fmt.Errorf("%w: series %d (%q) point %d has no matching label",
						chart.ErrMalformedSeriesData, i, s.Title, j)
				}
				slice.Label = labels[n]
				slice.Value = convert.ToNumber(d)
			default:
				return nil, fmt.Errorf("%w: series %d (%q) point %d must be a [label, value] pair when no labels are given",
					chart.ErrMalformedSeriesData, i, s.Title, j)
			}
			slice.Color = in.Spec.Color(n)
			ds.Slices = append(ds.Slices, slice)
			n++
		}
	}

	return ds, nil
}

func distinctTitles(cols []Column) []string {
	seen := make(map[string]bool, len(cols))
	titles := make([]string, 0, len(cols))
	for _, c := range cols {
		if !seen[c.Title] {
			seen[c.Title] = true
			titles = append(titles, c.Title)
		}
	}
	return titles
}
