package exporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"JVMProfiler/pkg/metrics"
)

var (
	pidMetric  = metrics.MustMetric("pid", "process id", metrics.Plain)
	heapMetric = metrics.MustMetric("heapUse", "heap used", metrics.AutoScale)
)

func snapshot() *metrics.Snapshot {
	return &metrics.Snapshot{
		ID:      uuid.New(),
		Host:    "localhost",
		TakenAt: time.Now(),
		Records: []*metrics.Record{
			metrics.NewRecord().Merge(pidMetric.New(int32(42)), heapMetric.New(int64(2048))).WithSource("42"),
		},
	}
}

// ============================================================================
// Format resolution
// ============================================================================

func TestNewExporter_FormatResolution(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		path, format, want string
	}{
		{"", "", "table"},
		{"", "csv", "csv"},
		{filepath.Join(dir, "a.csv"), "", "csv"},
		{filepath.Join(dir, "a.yml"), "", "yaml"},
		{filepath.Join(dir, "a.unknown"), "", "table"},
		{filepath.Join(dir, "a.txt"), "jsonl", "jsonl"},
	}
	for _, tc := range cases {
		e, err := NewExporter(tc.path, tc.format, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("NewExporter(%q, %q): %v", tc.path, tc.format, err)
		}
		if e.Format() != tc.want {
			t.Errorf("NewExporter(%q, %q).Format() = %s; want %s", tc.path, tc.format, e.Format(), tc.want)
		}
		if err := e.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
}

func TestNewExporter_UnknownFormat(t *testing.T) {
	if _, err := NewExporter("", "xml", &bytes.Buffer{}); err == nil {
		t.Error("NewExporter accepted an unknown format")
	}
}

// ============================================================================
// Output
// ============================================================================

func TestExport_Stdout(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewExporter("", "", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if e.Path() != "" {
		t.Errorf("Path() = %q; want empty", e.Path())
	}
	if err := e.Export(snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "heapUse") || !strings.Contains(got, "2048") {
		t.Errorf("stdout = %q", got)
	}
}

func TestExport_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.csv")
	e, err := NewExporter(path, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Export(snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.HasPrefix(got, "target,heapUse,pid\n42,2048,42\n") {
		t.Errorf("file = %q", got)
	}
}

func TestExport_AfterClose(t *testing.T) {
	e, err := NewExporter("", "csv", &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close = %v; want nil", err)
	}
	if err := e.Export(snapshot()); err == nil {
		t.Error("Export after Close succeeded")
	}
}
