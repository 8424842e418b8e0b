package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
)

func newTable(w io.Writer) table.Writer {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetStyle(style)
	t.SetOutputMirror(w)
	return t
}

// renderTable prints a standings table; row 0 is the header.
func renderTable(w io.Writer, tbl standings.Table) {
	t := newTable(w)
	if len(tbl.Data) == 0 {
		t.Render()
		return
	}

	t.AppendHeader(toRow(tbl.Data[0]))
	for _, cells := range tbl.Data[1:] {
		t.AppendRow(toRow(cells))
	}
	t.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
