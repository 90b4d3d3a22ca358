// Package catalog holds the chart documents of a directory. A document
// is a YAML (or JSON) file describing one chart and, optionally, the
// workbook its data is read from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/source"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	ErrNotFound             = errors.New("chart not found")
	ErrSourceOutsideCatalog = errors.New("workbook is outside the catalog directory")
)

var documentSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

type Document struct {
	ID string `yaml:"id,omitempty" json:"id,omitempty"`
	// Library is the preferred library, used when a request names none.
	Library string         `yaml:"library,omitempty" json:"library,omitempty"`
	Chart   chart.Spec     `yaml:"chart" json:"chart"`
	Series  []chart.Series `yaml:"series,omitempty" json:"series,omitempty"`
	Axes    []chart.Axis   `yaml:"axes,omitempty" json:"axes,omitempty"`
	Source  *Source        `yaml:"source,omitempty" json:"source,omitempty"`

	// Path is the file the document was read from, "" for posted ones.
	Path string `yaml:"-" json:"-"`
}

type Source struct {
	XLSX *WorkbookSource `yaml:"xlsx,omitempty" json:"xlsx,omitempty"`
}

type WorkbookSource struct {
	// Path is relative to the document's directory unless absolute.
	Path  string `yaml:"path" json:"path"`
	Sheet string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
}

type ValidationError struct {
	Name     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid chart document: %s", e.Name, strings.Join(e.Problems, "; "))
}

// ParseDocument validates and decodes a document. name is used in errors
// and, without its extension, as the id when the document has none.
func ParseDocument(name string, data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if err := validate(name, raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	return &doc, nil
}

func validate(name string, raw any) error {
	schema, err := documentSchema()
	if err != nil {
		return fmt.Errorf("failed to compile document schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%s: schema validation failed: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, len(result.Errors()))
	for i, e := range result.Errors() {
		problems[i] = e.String()
	}
	return &ValidationError{Name: name, Problems: problems}
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// CheckSource fails when the workbook path is absolute or climbs out of
// the directory it is resolved against. Documents that did not come from
// the catalog directory are checked before Input.
func (d *Document) CheckSource() error {
	if d.Source == nil || d.Source.XLSX == nil {
		return nil
	}
	if !filepath.IsLocal(d.Source.XLSX.Path) {
		return fmt.Errorf("%w: %s", ErrSourceOutsideCatalog, d.Source.XLSX.Path)
	}
	return nil
}

// Input resolves the document's data source and returns the chart input.
// Workbook series come first, followed by the series of the document.
// The workbook labels fill the x-axis unless the document sets its own.
func (d *Document) Input(baseDir string) (chart.Input, error) {
	in := chart.Input{
		Spec:   d.Chart,
		Series: append([]chart.Series(nil), d.Series...),
		Axes:   append([]chart.Axis(nil), d.Axes...),
	}

	if d.Source == nil || d.Source.XLSX == nil {
		return in, nil
	}

	path := d.Source.XLSX.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	table, err := source.FromWorkbook(path, d.Source.XLSX.Sheet)
	if err != nil {
		return chart.Input{}, fmt.Errorf("chart %s: %w", d.ID, err)
	}

	in.Series = append(table.Series(), in.Series...)

	for i, a := range in.Axes {
		if a.Kind == chart.AxisX {
			if len(a.Labels) == 0 {
				in.Axes[i].Labels = table.Labels
			}
			if a.Title == "" {
				in.Axes[i].Title = table.Corner
			}
			return in, nil
		}
	}
	in.Axes = append([]chart.Axis{table.XAxis()}, in.Axes...)

	return in, nil
}
