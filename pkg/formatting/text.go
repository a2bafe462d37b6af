package formatting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"JVMProfiler/pkg/metrics"
)

func init() {
	Register(&TableFormat{})
	Register(&GridFormat{})
}

// TableFormat is the padded text table produced by Render.
type TableFormat struct{}

func (f *TableFormat) Name() string              { return "table" }
func (f *TableFormat) Extensions() []string      { return []string{".txt"} }
func (f *TableFormat) Writer(w io.Writer) Writer { return &tableWriter{w: w} }

type tableWriter struct {
	w      io.Writer
	passes int
}

func (t *tableWriter) Write(s *metrics.Snapshot) error {
	rows, err := Render(s.Records)
	if err != nil {
		return err
	}
	if t.passes > 0 && len(rows) > 0 {
		if _, err := io.WriteString(t.w, "\n"); err != nil {
			return err
		}
	}
	t.passes++
	return WriteRows(t.w, rows)
}

func (t *tableWriter) Flush() error { return nil }

// GridFormat draws the same cells as TableFormat inside box borders.
type GridFormat struct{}

func (f *GridFormat) Name() string              { return "grid" }
func (f *GridFormat) Extensions() []string      { return nil }
func (f *GridFormat) Writer(w io.Writer) Writer { return &gridWriter{w: w} }

type gridWriter struct {
	w io.Writer
}

func (g *gridWriter) Write(s *metrics.Snapshot) error {
	if len(s.Records) == 0 {
		return nil
	}
	// Render enforces the column contract before anything is drawn.
	if _, err := Render(s.Records); err != nil {
		return err
	}
	columns := s.Columns()

	table := tablewriter.NewWriter(g.w)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetCaption(true, fmt.Sprintf("%s  %s  %d targets", s.Host, s.TakenAt.Format(metrics.DateTimeLayout), len(s.Records)))
	for _, rec := range s.Records {
		row := make([]string, len(columns))
		for i, c := range columns {
			m, _ := rec.Get(c)
			row[i] = m.DisplayValue()
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func (g *gridWriter) Flush() error { return nil }
