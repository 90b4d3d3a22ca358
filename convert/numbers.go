package convert

import (
	"html"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes every HTML tag from s and decodes entities.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// ToNumber coerces a data value to a number. Strings are stripped of
// markup first. nil, empty and unparseable values give nil.
func ToNumber(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case *float64:
		if x == nil {
			return nil
		}
		f := *x
		return &f
	case string:
		s := StripMarkup(x)
		if s == "" {
			return nil
		}
		v = s
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ToLabel renders a value as a plain-text label.
func ToLabel(v any) string {
	if v == nil {
		return ""
	}
	return StripMarkup(cast.ToString(v))
}
