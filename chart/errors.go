package chart

import "errors"

var (
	// ErrUnsupportedChartType is returned when a chart type is unknown or
	// has no mapping in the target library.
	ErrUnsupportedChartType = errors.New("unsupported chart type")
	// ErrMalformedSeriesData is returned when a data point does not have
	// the shape its chart type requires.
	ErrMalformedSeriesData = errors.New("malformed series data")
	// ErrAmbiguousSecondaryAxis is returned when a secondary y-axis is
	// requested and the chart does not have exactly two series.
	ErrAmbiguousSecondaryAxis = errors.New("ambiguous secondary axis")
	ErrInvalidRotation        = errors.New("invalid rotation")
	ErrInvalidAxes            = errors.New("invalid axes")
	ErrMissingData            = errors.New("missing data")
	ErrInvalidLegendPosition  = errors.New("invalid legend position")
)
