// Package source reads chart data from tabular sources. A table has the
// series titles in its first row and the category labels in its first
// column.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/angas/chartdef-go/chart"
	"github.com/xuri/excelize/v2"
)

var ErrEmptyTable = errors.New("table has no data")

type Table struct {
	// Corner is the top-left cell, used as the x-axis title.
	Corner string
	Header []string
	Labels []string
	// Rows holds one row per label with one cell per header column.
	Rows [][]string
}

// FromRows builds a table from a grid of cells. Short rows are padded,
// cells beyond the header are ignored.
func FromRows(grid [][]string) (Table, error) {
	grid = trimEmptyRows(grid)
	if len(grid) == 0 || len(grid[0]) < 2 {
		return Table{}, fmt.Errorf("%w: expected a header row with at least one series column", ErrEmptyTable)
	}

	header := grid[0]
	t := Table{
		Corner: strings.TrimSpace(header[0]),
		Header: make([]string, len(header)-1),
	}
	for i, h := range header[1:] {
		t.Header[i] = strings.TrimSpace(h)
	}

	for _, row := range grid[1:] {
		cells := make([]string, len(t.Header))
		for i := range cells {
			if i+1 < len(row) {
				cells[i] = strings.TrimSpace(row[i+1])
			}
		}
		label := ""
		if len(row) > 0 {
			label = strings.TrimSpace(row[0])
		}
		t.Labels = append(t.Labels, label)
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

// FromWorkbook reads a sheet of an xlsx workbook, the first sheet when
// sheet is empty.
func FromWorkbook(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("%w: workbook %s has no sheets", ErrEmptyTable, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}

	t, err := FromRows(rows)
	if err != nil {
		return Table{}, fmt.Errorf("sheet %q of %s: %w", sheet, path, err)
	}
	return t, nil
}

// Series returns one series per header column. Cells are passed on as
// strings, numbers are parsed when the chart is assembled.
func (t Table) Series() []chart.Series {
	series := make([]chart.Series, len(t.Header))
	for col, title := range t.Header {
		data := make([]any, len(t.Rows))
		for row, cells := range t.Rows {
			data[row] = cells[col]
		}
		series[col] = chart.Series{Title: title, Data: data}
	}
	return series
}

func (t Table) XAxis() chart.Axis {
	return chart.Axis{Kind: chart.AxisX, Title: t.Corner, Labels: t.Labels}
}

func trimEmptyRows(grid [][]string) [][]string {
	for len(grid) > 0 && isEmptyRow(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	return grid
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
