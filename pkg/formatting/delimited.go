package formatting

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"JVMProfiler/pkg/metrics"
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
}

// CSVFormat handles CSV output.
type CSVFormat struct{}

func (f *CSVFormat) Name() string              { return "csv" }
func (f *CSVFormat) Extensions() []string      { return []string{".csv"} }
func (f *CSVFormat) Writer(w io.Writer) Writer { return newDelimitedWriter(w, ',') }

// TSVFormat handles TSV output.
type TSVFormat struct{}

func (f *TSVFormat) Name() string              { return "tsv" }
func (f *TSVFormat) Extensions() []string      { return []string{".tsv"} }
func (f *TSVFormat) Writer(w io.Writer) Writer { return newDelimitedWriter(w, '\t') }

// DelimitedWriter writes display values, one line per record, after a
// header taken from the first snapshot with records.
type DelimitedWriter struct {
	writer *csv.Writer
	header []string
	mu     sync.Mutex
}

func newDelimitedWriter(w io.Writer, delimiter rune) *DelimitedWriter {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	return &DelimitedWriter{writer: cw}
}

func (w *DelimitedWriter) Write(s *metrics.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(s.Records) == 0 {
		return nil
	}
	if w.header == nil {
		w.header = s.Columns()
		if err := w.writer.Write(append([]string{"target"}, w.header...)); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, rec := range s.Records {
		row := make([]string, 0, len(w.header)+1)
		row = append(row, rec.Source())
		for _, c := range w.header {
			m, ok := rec.Get(c)
			if !ok {
				return &ContractViolationError{Row: i, Column: c}
			}
			row = append(row, m.DisplayValue())
		}
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func (w *DelimitedWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	return w.writer.Error()
}
