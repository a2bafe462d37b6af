// Package exporting persists measurement passes to a file or stdout.
package exporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"JVMProfiler/pkg/formatting"
	"JVMProfiler/pkg/metrics"
)

// Exporter writes snapshots in one output format.
type Exporter struct {
	path   string
	format string
	writer formatting.Writer
	file   *os.File

	mu     sync.Mutex
	closed bool
}

// NewExporter creates an exporter for path. An empty path writes to stdout.
// When format is empty it is inferred from the path extension, falling back
// to the table format.
func NewExporter(path, format string, stdout io.Writer) (*Exporter, error) {
	f, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	e := &Exporter{path: path, format: f.Name()}
	if path == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		e.writer = f.Writer(stdout)
		return e, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	e.file = file
	e.writer = f.Writer(file)
	return e, nil
}

func resolveFormat(path, format string) (formatting.Format, error) {
	if format != "" {
		f, ok := formatting.Get(format)
		if !ok {
			return nil, fmt.Errorf("unsupported format: %s (available: %v)", format, formatting.List())
		}
		return f, nil
	}
	if path != "" {
		if f, ok := formatting.GetByPath(path); ok {
			return f, nil
		}
	}
	f, _ := formatting.Get(formatting.DefaultFormat)
	return f, nil
}

// Path returns the output file path, empty for stdout.
func (e *Exporter) Path() string {
	return e.path
}

// Format returns the resolved format name.
func (e *Exporter) Format() string {
	return e.format
}

// Export writes one snapshot.
func (e *Exporter) Export(s *metrics.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("exporter closed")
	}
	if err := e.writer.Write(s); err != nil {
		return fmt.Errorf("failed to export snapshot %s: %w", s.ID, err)
	}
	return nil
}

// Close flushes the writer and closes the output file. Closing twice is a no-op.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	err := e.writer.Flush()
	if e.file != nil {
		if cerr := e.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
