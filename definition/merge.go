package definition

import "fmt"

// Merge returns a copy of generated with overrides merged on top.
//
//   - map and map: merged key by key, recursively.
//   - scalar and scalar: the override wins.
//   - map and anything else: the map wins the whole subtree, whichever
//     side it is on.
//   - lists are opaque values: an override list replaces the generated one.
//
// Neither argument is modified.
func Merge(generated, overrides map[string]any) map[string]any {
	out, _ := merge(generated, overrides, false, "")
	return out
}

// MergeStrict is Merge, but fails with ErrIncompatibleMergeShape where a
// map would silently win over a non-map value.
func MergeStrict(generated, overrides map[string]any) (map[string]any, error) {
	return merge(generated, overrides, true, "")
}

func merge(generated, overrides map[string]any, strict bool, path string) (map[string]any, error) {
	out := make(map[string]any, len(generated)+len(overrides))
	for k, v := range generated {
		out[k] = cloneValue(v)
	}

	for k, ov := range overrides {
		keyPath := k
		if path != "" {
			keyPath = path + "." + k
		}

		gv, exists := out[k]
		if !exists {
			out[k] = cloneValue(ov)
			continue
		}

		gm, gIsMap := asMap(gv)
		om, oIsMap := asMap(ov)
		switch {
		case gIsMap && oIsMap:
			m, err := merge(gm, om, strict, keyPath)
			if err != nil {
				return nil, err
			}
			out[k] = m
		case gIsMap:
			if strict && ov != nil {
				return nil, fmt.Errorf("%w: %s is an object, override is %T", ErrIncompatibleMergeShape, keyPath, ov)
			}
		case oIsMap:
			if strict && gv != nil {
				return nil, fmt.Errorf("%w: %s is %T, override is an object", ErrIncompatibleMergeShape, keyPath, gv)
			}
			out[k] = cloneValue(ov)
		default:
			out[k] = cloneValue(ov)
		}
	}

	return out, nil
}
