// Package definition works on library chart definitions: JSON-shaped
// nested maps that are merged with raw user options and trimmed before
// they are serialized.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Definition is a JSON-serializable chart configuration for one charting
// library.
type Definition = map[string]any

var ErrIncompatibleMergeShape = errors.New("incompatible merge shape")

// FromStruct converts a typed configuration into its plain JSON form:
// nested map[string]any, []any, float64, string, bool and nil.
func FromStruct(v any) (Definition, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var def Definition
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("definition is not a JSON object: %w", err)
	}
	if def == nil {
		def = Definition{}
	}
	return def, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[fmt.Sprint(k)] = e
		}
		return out, true
	}
	return nil, false
}

func cloneValue(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = cloneValue(e)
		}
		return out
	}
	if l, ok := v.([]any); ok {
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
