package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"JVMProfiler/pkg/metrics"
)

func init() {
	Register(&YAMLFormat{})
}

// YAMLFormat writes each snapshot as one YAML document.
type YAMLFormat struct{}

func (f *YAMLFormat) Name() string              { return "yaml" }
func (f *YAMLFormat) Extensions() []string      { return []string{".yaml", ".yml"} }
func (f *YAMLFormat) Writer(w io.Writer) Writer { return newYAMLWriter(w) }

type yamlTarget struct {
	Target   string            `yaml:"target"`
	Measures map[string]any    `yaml:"measures"`
	Display  map[string]string `yaml:"display"`
}

type yamlSnapshot struct {
	PassID  string       `yaml:"passId"`
	Host    string       `yaml:"host"`
	TakenAt string       `yaml:"takenAt"`
	Targets []yamlTarget `yaml:"targets"`
}

type yamlWriter struct {
	enc *yaml.Encoder
}

func newYAMLWriter(w io.Writer) *yamlWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &yamlWriter{enc: enc}
}

func (w *yamlWriter) Write(s *metrics.Snapshot) error {
	doc := yamlSnapshot{
		PassID:  s.ID.String(),
		Host:    s.Host,
		TakenAt: s.TakenAt.Format("2006-01-02T15:04:05.000Z07:00"),
		Targets: make([]yamlTarget, 0, len(s.Records)),
	}
	for _, rec := range s.Records {
		t := yamlTarget{
			Target:   rec.Source(),
			Measures: make(map[string]any, rec.Len()),
			Display:  make(map[string]string, rec.Len()),
		}
		for _, m := range rec.Fields() {
			t.Measures[m.Name()] = m.Value
			t.Display[m.Name()] = m.DisplayValue()
		}
		doc.Targets = append(doc.Targets, t)
	}
	if err := w.enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func (w *yamlWriter) Flush() error {
	return w.enc.Close()
}
