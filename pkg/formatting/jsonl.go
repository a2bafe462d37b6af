package formatting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"JVMProfiler/pkg/metrics"
)

func init() {
	Register(&JSONLFormat{})
}

// JSONLFormat writes one JSON object per record with raw values.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string              { return "jsonl" }
func (f *JSONLFormat) Extensions() []string      { return []string{".jsonl", ".json"} }
func (f *JSONLFormat) Writer(w io.Writer) Writer { return newJSONLWriter(w) }

type jsonlWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &jsonlWriter{buf: buf, enc: json.NewEncoder(buf)}
}

// recordObject flattens a record into a map with pass metadata.
func recordObject(s *metrics.Snapshot, rec *metrics.Record) map[string]any {
	obj := make(map[string]any, rec.Len()+4)
	obj["passId"] = s.ID.String()
	obj["host"] = s.Host
	obj["takenAt"] = s.TakenAt
	obj["target"] = rec.Source()
	for _, m := range rec.Fields() {
		obj[m.Name()] = m.Value
	}
	return obj
}

func (w *jsonlWriter) Write(s *metrics.Snapshot) error {
	for i, rec := range s.Records {
		if err := w.enc.Encode(recordObject(s, rec)); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}

func (w *jsonlWriter) Flush() error {
	return w.buf.Flush()
}
