// Package render runs the chart definition pipeline: validate the input,
// let the library adapter build its definition, merge the raw options on
// top and trim empty values.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/angas/chartdef-go/assemble"
	"github.com/angas/chartdef-go/billboard"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/chartjs"
	"github.com/angas/chartdef-go/definition"
	"github.com/angas/chartdef-go/highcharts"
)

var ErrUnknownLibrary = errors.New("unknown chart library")

// Adapter builds the definition of one charting library. Build may
// return any value that marshals to a JSON object.
type Adapter interface {
	Name() string
	Profile() assemble.Profile
	Build(in chart.Input) (any, error)
}

type Options struct {
	// StrictMerge fails on raw options whose shape conflicts with the
	// generated definition instead of letting the map side win.
	StrictMerge bool
}

// Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
	names    []string
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		name := normalizeName(a.Name())
		if _, exists := r.adapters[name]; !exists {
			r.names = append(r.names, name)
		}
		r.adapters[name] = a
	}
	slices.Sort(r.names)
	return r
}

// Default returns a registry holding the Billboard, Chart.js and
// Highcharts adapters.
func Default() *Registry {
	return NewRegistry(billboard.New(), chartjs.New(), highcharts.New())
}

func (r *Registry) Libraries() []string {
	return slices.Clone(r.names)
}

func (r *Registry) Adapter(library string) (Adapter, error) {
	a, ok := r.adapters[normalizeName(library)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLibrary, library)
	}
	return a, nil
}

// Supports reports whether the library can draw the chart type.
func (r *Registry) Supports(library string, t chart.Type) bool {
	a, err := r.Adapter(library)
	if err != nil {
		return false
	}
	_, err = a.Profile().Normalize(t, assemble.Flags{})
	return err == nil
}

func (r *Registry) Render(library string, in chart.Input, opts Options) (definition.Definition, error) {
	a, err := r.Adapter(library)
	if err != nil {
		return nil, err
	}

	if err := chart.Validate(in); err != nil {
		return nil, err
	}

	out, err := a.Build(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	def, err := definition.FromStruct(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	if len(in.Spec.RawOptions) > 0 {
		raw, err := definition.FromStruct(in.Spec.RawOptions)
		if err != nil {
			return nil, fmt.Errorf("raw options: %w", err)
		}
		if opts.StrictMerge {
			if def, err = definition.MergeStrict(def, raw); err != nil {
				return nil, fmt.Errorf("raw options: %w", err)
			}
		} else {
			def = definition.Merge(def, raw)
		}
	}

	return definition.Trim(def), nil
}

func (r *Registry) RenderJSON(library string, in chart.Input, opts Options) ([]byte, error) {
	def, err := r.Render(library, in, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
