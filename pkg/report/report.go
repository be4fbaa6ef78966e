// Package report renders record listings as fixed-width text tables.
//
// Rows are sorted by a case-insensitive key before printing. The sort works
// on a copy; the aggregated listing keeps its API order.
package report

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Sternrassler/cloudhealth-client/pkg/record"
)

// Align is the horizontal alignment of a cell.
type Align int

const (
	// AlignLeft pads on the right and truncates to the column width.
	AlignLeft Align = iota
	// AlignCenter centers without truncating.
	AlignCenter
)

// Column is one table column.
type Column struct {
	Header string
	Width  int
	Align  Align
	Value  func(record.Record) (string, error)
}

// Field returns a column value reading a dotted path.
func Field(path string) func(record.Record) (string, error) {
	return func(r record.Record) (string, error) {
		return r.String(path)
	}
}

// YesNo returns a column value rendering a boolean path as Yes or No.
func YesNo(path string) func(record.Record) (string, error) {
	return func(r record.Record) (string, error) {
		b, err := r.Bool(path)
		if err != nil {
			return "", err
		}
		if b {
			return "Yes", nil
		}
		return "No", nil
	}
}

// Subtotal configures running counts per group.
type Subtotal struct {
	// Field is the dotted path whose value defines the group.
	Field string
	// Label formats the subtotal line.
	Label func(group string, count int) string
}

// Report describes one listing.
type Report struct {
	Columns []Column
	// SortKey paths are concatenated, then lower-cased.
	SortKey []string
	// SeparatorWidth is the length of the dashed separator lines.
	SeparatorWidth int
	// Noun completes "Total of <Noun>: N".
	Noun     string
	Subtotal *Subtotal
}

// Options alter a single rendering.
type Options struct {
	// ShowSubtotal prints group subtotals when the report defines them.
	ShowSubtotal bool
}

type row struct {
	group string
	cells []string
}

// Render writes the table for records to w. All field lookups happen
// before anything is written, so a lookup error produces no output.
func (rp Report) Render(w io.Writer, records []record.Record, opts Options) error {
	subtotal := rp.Subtotal
	if !opts.ShowSubtotal {
		subtotal = nil
	}

	sorted, err := rp.Sorted(records)
	if err != nil {
		return err
	}

	rows := make([]row, 0, len(sorted))
	for _, r := range sorted {
		rw, err := rp.buildRow(r, subtotal)
		if err != nil {
			return err
		}
		rows = append(rows, rw)
	}

	var buf bytes.Buffer
	sep := strings.Repeat("-", rp.SeparatorWidth)

	headers := make([]string, len(rp.Columns))
	for i, c := range rp.Columns {
		headers[i] = fit(c.Header, c.Width)
	}
	fmt.Fprintln(&buf, strings.Join(headers, " "))
	fmt.Fprintln(&buf, sep)

	count := 0
	for i, rw := range rows {
		if subtotal != nil && i > 0 && rw.group != rows[i-1].group {
			writeSubtotal(&buf, sep, subtotal.Label(rows[i-1].group, count))
			count = 0
		}
		count++
		fmt.Fprintln(&buf, strings.Join(rw.cells, " "))
	}
	if subtotal != nil && len(rows) > 0 {
		writeSubtotal(&buf, sep, subtotal.Label(rows[len(rows)-1].group, count))
	}

	fmt.Fprintln(&buf, sep)
	fmt.Fprintf(&buf, "Total of %s: %d\n", rp.Noun, len(rows))

	_, err = w.Write(buf.Bytes())
	return err
}

func (rp Report) buildRow(r record.Record, subtotal *Subtotal) (row, error) {
	cells := make([]string, len(rp.Columns))
	for i, c := range rp.Columns {
		v, err := c.Value(r)
		if err != nil {
			return row{}, err
		}
		switch c.Align {
		case AlignCenter:
			cells[i] = center(v, c.Width)
		default:
			cells[i] = fit(v, c.Width)
		}
	}

	rw := row{cells: cells}
	if subtotal != nil {
		group, err := r.String(subtotal.Field)
		if err != nil {
			return row{}, err
		}
		rw.group = group
	}
	return rw, nil
}

// Key returns the lower-cased concatenation of the sort key fields.
func (rp Report) Key(r record.Record) (string, error) {
	var sb strings.Builder
	for _, path := range rp.SortKey {
		v, err := r.String(path)
		if err != nil {
			return "", err
		}
		sb.WriteString(v)
	}
	return strings.ToLower(sb.String()), nil
}

// Sorted returns a copy of records stably ordered by the report key.
func (rp Report) Sorted(records []record.Record) ([]record.Record, error) {
	type keyed struct {
		key string
		rec record.Record
	}

	ks := make([]keyed, len(records))
	for i, r := range records {
		k, err := rp.Key(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ks[i] = keyed{key: k, rec: r}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	out := make([]record.Record, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out, nil
}

func writeSubtotal(buf *bytes.Buffer, sep, line string) {
	fmt.Fprintln(buf, sep)
	fmt.Fprintln(buf, line)
	fmt.Fprintln(buf, sep)
}

// fit pads s to width runes, truncating longer values.
func fit(s string, width int) string {
	return fmt.Sprintf("%-*.*s", width, width, s)
}

// center pads s on both sides to width runes; the odd space goes right.
// Longer values are left untouched.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
