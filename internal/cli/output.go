package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/flowmatic/sqlconnect/connector"
)

// Result is the output payload for query commands.
type Result struct {
	Columns []string        `json:"columns"`
	Rows    []connector.Row `json:"rows"`
	Count   int             `json:"count"`
}

// BuildResult shapes fetched rows for rendering. Columns are the sorted
// union of the row keys so output is deterministic; byte-slice values are
// converted to strings so JSON output stays readable.
func BuildResult(rows []connector.Row) Result {
	columns := map[string]struct{}{}
	for _, row := range rows {
		for col, value := range row {
			columns[col] = struct{}{}
			if b, ok := value.([]byte); ok {
				row[col] = string(b)
			}
		}
	}

	sorted := make([]string, 0, len(columns))
	for col := range columns {
		sorted = append(sorted, col)
	}
	sort.Strings(sorted)

	return Result{Columns: sorted, Rows: rows, Count: len(rows)}
}

// RenderRows writes fetched rows in the requested format.
func RenderRows(w io.Writer, format string, rows []connector.Row) error {
	res := BuildResult(rows)
	if format == "json" {
		return renderJSON(w, res)
	}
	renderTable(w, res)
	return nil
}

func renderJSON(w io.Writer, res Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func renderTable(w io.Writer, res Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)

	for _, row := range res.Rows {
		cells := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			cells = append(cells, formatCell(row[col]))
		}
		table.Append(cells)
	}
	table.Render()
	fmt.Fprintf(w, "%d row(s)\n", res.Count)
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", value)
}
