package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/convert"
	"github.com/angas/chartdef-go/source"
	"github.com/spf13/cobra"
)

type importOptions struct {
	sheet      string
	chartType  string
	id         string
	title      string
	library    string
	link       bool
	outputPath string
}

// importDocument builds a chart document from a worksheet. Linked
// documents reference the workbook, others carry the cell values.
func importDocument(path string, opts importOptions) (*catalog.Document, error) {
	t, err := chart.ParseType(opts.chartType)
	if err != nil {
		return nil, err
	}

	table, err := source.FromWorkbook(path, opts.sheet)
	if err != nil {
		return nil, err
	}

	id := opts.id
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc := &catalog.Document{
		ID:      id,
		Library: opts.library,
		Chart:   chart.Spec{Type: t, Title: opts.title},
	}

	if opts.link {
		doc.Source = &catalog.Source{XLSX: &catalog.WorkbookSource{Path: path, Sheet: opts.sheet}}
		return doc, nil
	}

	if t.IsPieLike() {
		doc.Series = pieSeries(table)
		return doc, nil
	}

	doc.Series = table.Series()
	for i := range doc.Series {
		for j, v := range doc.Series[i].Data {
			doc.Series[i].Data[j] = cellValue(v)
		}
	}
	if t.HasAxes() {
		doc.Axes = []chart.Axis{table.XAxis()}
	}
	return doc, nil
}

// pieSeries pairs every cell with its row label, pie charts have no
// x-axis to take the labels from.
func pieSeries(table source.Table) []chart.Series {
	series := table.Series()
	for i := range series {
		for j, v := range series[i].Data {
			series[i].Data[j] = []any{table.Labels[j], cellValue(v)}
		}
	}
	return series
}

func cellValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if n := convert.ToNumber(s); n != nil {
		return *n
	}
	return s
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Create a chart document from a worksheet",
		Long: heredoc.Doc(`
			Create a chart document from a worksheet. The first row holds the
			series titles and the first column the x-axis labels.
		`),
		Example: heredoc.Doc(`
			chartdef import sales.xlsx --sheet Q1 --type column -o charts/q1.yaml
			chartdef import sales.xlsx --link --type line
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := importDocument(args[0], opts)
			if err != nil {
				return err
			}

			data, err := doc.Marshal()
			if err != nil {
				return err
			}

			if opts.outputPath != "" {
				if err := os.WriteFile(opts.outputPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Worksheet name (default: the first sheet)")
	cmd.Flags().StringVarP(&opts.chartType, "type", "t", "line", "Chart type")
	cmd.Flags().StringVar(&opts.id, "id", "", "Chart id (default: the workbook file name)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Chart title")
	cmd.Flags().StringVarP(&opts.library, "library", "l", "", "Preferred chart library")
	cmd.Flags().BoolVar(&opts.link, "link", false, "Reference the workbook instead of copying its values")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
