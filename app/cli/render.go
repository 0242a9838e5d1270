package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter/clickhouse"
	"github.com/ydb-platform/clickhouse-adapter/app/tabular"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatArrow = "arrow"
	formatTree  = "tree"
)

const nullText = "NULL"

func renderResult(w io.Writer, format string, columns []adapter.Column, rows [][]any) error {
	switch format {
	case formatTable:
		renderTable(w, columns, rows)

		return nil
	case formatCSV:
		t := newResultTable(w, columns, rows)
		t.RenderCSV()

		return nil
	case formatJSON:
		return renderJSON(w, columns, rows)
	case formatArrow:
		return renderArrow(w, columns, rows)
	default:
		return fmt.Errorf("unknown result format `%s`, use one of: table, json, csv, arrow", format)
	}
}

func newResultTable(w io.Writer, columns []adapter.Column, rows [][]any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(keepCase(table.StyleDefault))

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}

	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = formatValue(v)
		}

		t.AppendRow(r)
	}

	return t
}

func renderTable(w io.Writer, columns []adapter.Column, rows [][]any) {
	t := newResultTable(w, columns, rows)
	t.SetStyle(keepCase(table.StyleLight))

	footer := make(table.Row, len(columns))
	for i, col := range columns {
		footer[i] = fmt.Sprintf("%s %s", clickhouse.ShortType(col.Type), col.Type)
	}

	t.AppendFooter(footer)
	t.Render()

	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// keepCase disables the upper-casing go-pretty applies to headers and footers;
// column names and types are case sensitive.
func keepCase(style table.Style) table.Style {
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	return style
}

func renderJSON(w io.Writer, columns []adapter.Column, rows [][]any) error {
	out := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		obj := make(map[string]any, len(columns))
		for i, col := range columns {
			obj[col.Name] = jsonValue(row[i])
		}

		out = append(out, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func renderArrow(w io.Writer, columns []adapter.Column, rows [][]any) error {
	alloc := memory.NewGoAllocator()

	record, err := tabular.NewRecord(alloc, columns, rows)
	if err != nil {
		return fmt.Errorf("new record: %w", err)
	}

	defer record.Release()

	return tabular.WriteIPC(w, alloc, record)
}

func renderCatalog(w io.Writer, format string, catalog *adapter.Catalog) error {
	switch format {
	case formatTree:
		l := list.NewWriter()
		l.SetOutputMirror(w)
		l.SetStyle(list.StyleConnectedLight)

		depth := 0

		catalog.Walk(func(item *adapter.CatalogItem, itemDepth int) bool {
			for ; depth < itemDepth; depth++ {
				l.Indent()
			}

			for ; depth > itemDepth; depth-- {
				l.UnIndent()
			}

			l.AppendItem(fmt.Sprintf("%s [%s]", item.Label, item.TypeLabel))

			return true
		})

		l.Render()

		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(catalog)
	default:
		return fmt.Errorf("unknown catalog format `%s`, use one of: tree, json", format)
	}
}

func formatValue(v any) string {
	switch value := tabular.Deref(v).(type) {
	case nil:
		return nullText
	case []byte:
		return string(value)
	case time.Time:
		return value.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(value)
	}
}

func jsonValue(v any) any {
	switch value := tabular.Deref(v).(type) {
	case []byte:
		return string(value)
	default:
		return value
	}
}
