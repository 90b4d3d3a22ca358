package chart

import (
	"fmt"
	"slices"
)

var legendPositions = []string{"", LegendTop, LegendRight, LegendBottom, LegendLeft, LegendNone}

// Validate checks the structural invariants of an input. It does not look
// at individual data points; their shape depends on the target library
// and is checked while assembling.
func Validate(in Input) error {
	if _, err := ParseType(string(in.Spec.Type)); err != nil {
		return err
	}

	if !slices.Contains(legendPositions, in.Spec.LegendPosition) {
		return fmt.Errorf("%w: %q", ErrInvalidLegendPosition, in.Spec.LegendPosition)
	}

	if len(in.Series) == 0 {
		return fmt.Errorf("%w: chart has no series", ErrMissingData)
	}

	for i, s := range in.Series {
		if s.Data == nil {
			return fmt.Errorf("%w: series %d (%q) has no data", ErrMissingData, i, s.Title)
		}
		if s.Type != "" {
			if _, err := ParseType(string(s.Type)); err != nil {
				return fmt.Errorf("series %d (%q): %w", i, s.Title, err)
			}
		}
		switch s.TargetAxis {
		case "", AxisPrimary, AxisSecondary:
		default:
			return fmt.Errorf("%w: series %d (%q) targets unknown axis %q", ErrInvalidAxes, i, s.Title, s.TargetAxis)
		}
	}

	var x, y, y2 int
	for i, a := range in.Axes {
		switch {
		case a.Kind == AxisX:
			x++
			if a.Opposite {
				return fmt.Errorf("%w: axis %d: x-axis can't be opposite", ErrInvalidAxes, i)
			}
		case a.Kind == AxisY && a.Opposite:
			y2++
		case a.Kind == AxisY:
			y++
		default:
			return fmt.Errorf("%w: axis %d has unknown kind %q", ErrInvalidAxes, i, a.Kind)
		}
		if a.Kind == AxisY && len(a.Labels) > 0 {
			return fmt.Errorf("%w: axis %d: labels are only allowed on the x-axis", ErrInvalidAxes, i)
		}
	}
	if x > 1 {
		return fmt.Errorf("%w: %d x-axes, at most one is allowed", ErrInvalidAxes, x)
	}
	if y > 1 {
		return fmt.Errorf("%w: %d primary y-axes, at most one is allowed", ErrInvalidAxes, y)
	}
	if y2 > 1 {
		return fmt.Errorf("%w: %d secondary y-axes, at most one is allowed", ErrInvalidAxes, y2)
	}

	return nil
}
