package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"JVMProfiler/pkg/metrics"
)

// PadChar separates and aligns table cells.
const PadChar = ' '

// ContractViolationError reports a record lacking one of the canonical
// columns. It indicates a bug in whatever produced the records.
type ContractViolationError struct {
	Row    int
	Column string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("record %d has no value for column %q", e.Row, e.Column)
}

// Render lays records out as a header row followed by one row per record.
// Columns follow the field order of the first record. Headers are centered
// and values right-aligned in width+1 cells.
func Render(records []*metrics.Record) ([][]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	columns := records[0].Names()

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	values := make([][]string, len(records))
	for r, rec := range records {
		values[r] = make([]string, len(columns))
		for i, c := range columns {
			m, ok := rec.Get(c)
			if !ok {
				return nil, &ContractViolationError{Row: r, Column: c}
			}
			v := m.DisplayValue()
			values[r][i] = v
			widths[i] = max(widths[i], runewidth.StringWidth(v))
		}
	}

	rows := make([][]string, 0, len(records)+1)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = Center(c, widths[i]+1, PadChar)
	}
	rows = append(rows, header)
	for _, vals := range values {
		row := make([]string, len(columns))
		for i, v := range vals {
			row[i] = PadStart(v, widths[i]+1, PadChar)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes each rendered row on its own line.
func WriteRows(w io.Writer, rows [][]string) error {
	for _, row := range rows {
		if _, err := io.WriteString(w, strings.Join(row, "")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Center pads s on both sides up to minLength cells. Of an odd deficit the
// extra pad goes on the left.
func Center(s string, minLength int, pad rune) string {
	w := runewidth.StringWidth(s)
	if w >= minLength {
		return s
	}
	deficit := minLength - w
	right := deficit / 2
	left := deficit - right
	return strings.Repeat(string(pad), left) + s + strings.Repeat(string(pad), right)
}

// PadStart left-pads s up to minLength cells.
func PadStart(s string, minLength int, pad rune) string {
	w := runewidth.StringWidth(s)
	if w >= minLength {
		return s
	}
	return strings.Repeat(string(pad), minLength-w) + s
}
