package graphing

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"JVMProfiler/pkg/metrics"
)

var (
	heapUse = metrics.MustMetric("heapUse", "heap used", metrics.AutoScale)
	uptime  = metrics.MustMetric("uptime", "time since start", metrics.Duration)
	vmName  = metrics.MustMetric("vmname", "VM name", metrics.Plain)
)

func pass(at time.Time, recs ...*metrics.Record) *metrics.Snapshot {
	return &metrics.Snapshot{ID: uuid.New(), Host: "localhost", TakenAt: at, Records: recs}
}

func rec(src string, heap any, up int64) *metrics.Record {
	r := metrics.NewRecord().Merge(uptime.New(up), vmName.New("OpenJDK <Server> VM")).WithSource(src)
	if heap == nil {
		return r.Merge(heapUse.Empty())
	}
	return r.Merge(heapUse.New(heap))
}

// ============================================================================
// Series
// ============================================================================

func TestBuildSeries(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	snaps := []*metrics.Snapshot{
		pass(t0, rec("1", int64(100), 5), rec("2", nil, 7)),
		pass(t0.Add(time.Second), rec("1", int64(200), 6), rec("3", int64(50), 1)),
	}

	series := buildSeries(heapUse, snaps)
	if len(series) != 2 {
		t.Fatalf("got %d series; want 2 (target 2 has no data)", len(series))
	}
	if series[0].Target != "1" || series[0].Values[0] != 100 || series[0].Values[1] != 200 {
		t.Errorf("series[0] = %+v", series[0])
	}
	if series[1].Target != "3" || !math.IsNaN(series[1].Values[0]) || series[1].Values[1] != 50 {
		t.Errorf("series[1] = %+v", series[1])
	}
}

func TestNumericMetrics(t *testing.T) {
	got := numericMetrics([]*metrics.Snapshot{pass(time.Now(), rec("1", int64(1), 1))})
	if len(got) != 2 || got[0].Name != "heapUse" || got[1].Name != "uptime" {
		t.Errorf("numericMetrics = %v; want [heapUse uptime]", got)
	}
}

// ============================================================================
// Rendering
// ============================================================================

func TestRender_SinglePass(t *testing.T) {
	var buf strings.Builder
	err := Render(&buf, pass(time.Now(), rec("101", int64(2048), 30), rec("202", int64(4096), 60)))
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{"heapUse", "uptime", "101", "202", "summary-container", "OpenJDK &lt;Server&gt; VM"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRender_NoData(t *testing.T) {
	var buf strings.Builder
	if err := Render(&buf); !errors.Is(err, ErrNoData) {
		t.Errorf("Render() err = %v; want ErrNoData", err)
	}
	onlyText := pass(time.Now(), metrics.NewRecord().Merge(vmName.New("x")).WithSource("1"))
	if err := Render(&buf, onlyText); !errors.Is(err, ErrNoData) {
		t.Errorf("Render(text only) err = %v; want ErrNoData", err)
	}
}

func TestWriteFile(t *testing.T) {
	t0 := time.Now()
	path := filepath.Join(t.TempDir(), "out", "jvm.html")
	err := WriteFile(path,
		pass(t0, rec("1", int64(10), 1)),
		pass(t0.Add(2*time.Second), rec("1", int64(20), 3)),
	)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Passes: 2") {
		t.Error("summary does not report two passes")
	}
}
