package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one listing column. Numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

// listing collects rows for one of the list commands.
type listing struct {
	columns []column
	rows    []table.Row
}

func newListing(columns ...column) *listing {
	return &listing{columns: columns}
}

// add appends a row. Missing trailing cells render empty.
func (l *listing) add(cells ...any) {
	row := make(table.Row, len(l.columns))
	copy(row, cells)
	for i := range row {
		if row[i] == nil {
			row[i] = ""
		}
	}
	l.rows = append(l.rows, row)
}

func (l *listing) render() string {
	if len(l.columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(l.columns))
	configs := make([]table.ColumnConfig, len(l.columns))
	for i, c := range l.columns {
		header[i] = c.title
		align := text.AlignLeft
		if c.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.AppendRows(l.rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
