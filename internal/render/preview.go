// Package render produces human-facing views of extracted tables: a
// terminal preview and a PDF export.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/hyperifyio/readtable/internal/extract"
)

// Preview writes an ASCII rendering of table to w. The first row is used as
// the header. maxRows limits the body rows shown; zero shows all of them.
func Preview(w io.Writer, index int, table extract.Table, maxRows int) {
	if len(table) == 0 {
		return
	}
	width := table.Width()
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(pad(table[0], width))

	body := table[1:]
	shown := len(body)
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	for _, row := range body[:shown] {
		tw.Append(pad(row, width))
	}
	caption := fmt.Sprintf("table %d: %d rows x %d columns", index, len(table), width)
	if shown < len(body) {
		caption += fmt.Sprintf(" (showing %d)", shown+1)
	}
	tw.Render()
	fmt.Fprintln(w, caption)
}

// pad extends row to width with empty cells so ragged rows line up.
func pad(row extract.Row, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
