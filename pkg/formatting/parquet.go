package formatting

import (
	"fmt"
	"io"
	"sync"

	"github.com/parquet-go/parquet-go"

	"JVMProfiler/pkg/metrics"
)

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat writes one row per record. Numeric metrics keep their raw
// value as a double; the rest are stored as display strings.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string              { return "parquet" }
func (f *ParquetFormat) Extensions() []string      { return []string{".parquet"} }
func (f *ParquetFormat) Writer(w io.Writer) Writer { return &ParquetWriter{out: w} }

// Pass metadata columns written ahead of the metric columns.
const (
	colPassID  = "passId"
	colHost    = "host"
	colTakenAt = "takenAt"
	colTarget  = "target"
)

// ParquetWriter writes snapshots using the Row API.
type ParquetWriter struct {
	out     io.Writer
	writer  *parquet.Writer
	schema  *parquet.Schema
	columns []string
	kinds   map[string]metrics.Kind
	closed  bool
	mu      sync.Mutex
}

func (w *ParquetWriter) initSchema(s *metrics.Snapshot) {
	group := parquet.Group{
		colPassID:  parquet.String(),
		colHost:    parquet.String(),
		colTakenAt: parquet.Int(64),
		colTarget:  parquet.Optional(parquet.String()),
	}
	w.kinds = make(map[string]metrics.Kind)
	for _, m := range s.Metrics() {
		w.kinds[m.Name] = m.Kind
		group[m.Name] = metricNode(m.Kind)
	}

	w.schema = parquet.NewSchema("record", group)
	// Group fields are ordered by name; leaf indexes follow that order.
	for _, f := range w.schema.Fields() {
		w.columns = append(w.columns, f.Name())
	}
	w.writer = parquet.NewWriter(w.out, w.schema,
		parquet.Compression(&parquet.Snappy),
	)
}

func metricNode(k metrics.Kind) parquet.Node {
	if k.Numeric() {
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	}
	return parquet.Optional(parquet.String())
}

func (w *ParquetWriter) recordToRow(s *metrics.Snapshot, rec *metrics.Record, index int) (parquet.Row, error) {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		switch name {
		case colPassID:
			row[i] = parquet.ByteArrayValue([]byte(s.ID.String())).Level(0, 0, i)
			continue
		case colHost:
			row[i] = parquet.ByteArrayValue([]byte(s.Host)).Level(0, 0, i)
			continue
		case colTakenAt:
			row[i] = parquet.Int64Value(s.TakenAt.UnixNano()).Level(0, 0, i)
			continue
		case colTarget:
			row[i] = parquet.ByteArrayValue([]byte(rec.Source())).Level(0, 1, i)
			continue
		}

		m, ok := rec.Get(name)
		if !ok {
			return nil, &ContractViolationError{Row: index, Column: name}
		}
		if m.IsPlaceholder() {
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		if w.kinds[name].Numeric() {
			if f, ok := metrics.ToFloat(m.Value); ok {
				row[i] = parquet.DoubleValue(f).Level(0, 1, i)
				continue
			}
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		row[i] = parquet.ByteArrayValue([]byte(m.DisplayValue())).Level(0, 1, i)
	}
	return row, nil
}

func (w *ParquetWriter) Write(s *metrics.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("parquet writer already flushed")
	}
	if len(s.Records) == 0 {
		return nil
	}
	if w.writer == nil {
		w.initSchema(s)
	}

	rows := make([]parquet.Row, 0, len(s.Records))
	for i, rec := range s.Records {
		row, err := w.recordToRow(s, rec, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if _, err := w.writer.WriteRows(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	return nil
}

// Flush writes the footer. The writer cannot be used afterwards.
func (w *ParquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}
