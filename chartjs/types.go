package chartjs

type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels,omitempty"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset.Data is []*float64 for value datasets and []ChartPoint for
// scatter datasets.
type ChartDataset struct {
	Label           string  `json:"label,omitempty"`
	Type            string  `json:"type,omitempty"`
	Data            any     `json:"data"`
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     int     `json:"borderWidth,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
	Fill            *bool   `json:"fill,omitempty"`
	Stack           string  `json:"stack,omitempty"`
	YAxisID         string  `json:"yAxisID,omitempty"`
}

type ChartPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type ChartOptions struct {
	Responsive bool                  `json:"responsive"`
	IndexAxis  string                `json:"indexAxis,omitempty"`
	Plugins    ChartPlugins          `json:"plugins"`
	Scales     map[string]ChartScale `json:"scales,omitempty"`
	Elements   *ChartElements        `json:"elements,omitempty"`
	Cutout     string                `json:"cutout,omitempty"`
}

type ChartPlugins struct {
	Legend     ChartLegend      `json:"legend"`
	Title      ChartTitle       `json:"title"`
	Tooltip    *ChartTooltip    `json:"tooltip,omitempty"`
	DataLabels *ChartDataLabels `json:"datalabels,omitempty"`
}

type ChartLegend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartTooltip struct {
	Enabled bool `json:"enabled"`
}

type ChartDataLabels struct {
	Display bool `json:"display"`
}

type ChartElements struct {
	Point ChartPointElement `json:"point"`
}

type ChartPointElement struct {
	Radius int `json:"radius"`
}

type ChartScale struct {
	Type     string           `json:"type,omitempty"`
	Display  bool             `json:"display"`
	Position string           `json:"position,omitempty"`
	Stacked  bool             `json:"stacked,omitempty"`
	Min      *float64         `json:"min,omitempty"`
	Max      *float64         `json:"max,omitempty"`
	Title    *ChartScaleTitle `json:"title,omitempty"`
	Ticks    *ChartTicks      `json:"ticks,omitempty"`
}

type ChartScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color,omitempty"`
}

type ChartTicks struct {
	MinRotation *int               `json:"minRotation,omitempty"`
	MaxRotation *int               `json:"maxRotation,omitempty"`
	Align       string             `json:"align,omitempty"`
	Format      *ChartNumberFormat `json:"format,omitempty"`
}

// ChartNumberFormat describes the tick label formatter the page loader
// installs as ticks.callback.
type ChartNumberFormat struct {
	Prefix   string `json:"prefix"`
	Suffix   string `json:"suffix"`
	Decimals *int   `json:"decimals,omitempty"`
}
