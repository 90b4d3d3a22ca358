package definition

import "reflect"

// Trim returns a copy of def without keys whose value is null, an empty
// map or an empty list. Children are trimmed first, so a map that only
// held empty values is removed as well. false, 0 and "" are kept.
//
// List elements are never removed, a null inside a data list is a gap in
// the series.
func Trim(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		if tv, keep := trimValue(v); keep {
			out[k] = tv
		}
	}
	return out
}

func trimValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := asMap(v); ok {
		t := Trim(m)
		return t, len(t) > 0
	}
	if l, ok := v.([]any); ok {
		if len(l) == 0 {
			return nil, false
		}
		return trimList(l), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return nil, false
		}
	}
	return v, true
}

func trimList(l []any) []any {
	out := make([]any, len(l))
	for i, e := range l {
		if m, ok := asMap(e); ok {
			out[i] = Trim(m)
			continue
		}
		if inner, ok := e.([]any); ok {
			out[i] = trimList(inner)
			continue
		}
		out[i] = e
	}
	return out
}
