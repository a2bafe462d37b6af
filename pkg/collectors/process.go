package collectors

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
)

func init() {
	Register("process", func() Meter { return NewProcessMeter() })
}

var (
	pidMetric     = metrics.MustMetric("pid", "process id", metrics.Plain)
	userMetric    = metrics.MustMetric("user", "owner of the process", metrics.Plain)
	etimeMetric   = metrics.MustMetric("etime", "elapsed time since the process started", metrics.Duration)
	startMetric   = metrics.MustMetric("started", "process start time", metrics.DateTime)
	rssMetric     = metrics.MustMetric("rss", "resident set size in bytes", metrics.AutoScale)
	vszMetric     = metrics.MustMetric("vsz", "virtual memory size in bytes", metrics.AutoScale)
	minfltMetric  = metrics.MustMetric("minflt", "minor page faults", metrics.AutoScale)
	majfltMetric  = metrics.MustMetric("majflt", "major page faults", metrics.AutoScale)
	ctxswMetric   = metrics.MustMetric("ctxsw", "voluntary and involuntary context switches", metrics.AutoScale)
	threadsMetric = metrics.MustMetric("threads", "os threads", metrics.AutoScale)
	niceMetric    = metrics.MustMetric("nice", "scheduling priority", metrics.Plain)
	cpuMetric     = metrics.MustMetric("cpu", "cpu usage percent since start", metrics.Plain)
)

// ProcessMeter reads the operating system view of a target process.
type ProcessMeter struct {
	now func() time.Time
}

// NewProcessMeter returns a ProcessMeter using the wall clock.
func NewProcessMeter() *ProcessMeter {
	return &ProcessMeter{now: time.Now}
}

func (m *ProcessMeter) Name() string { return "process" }

func (m *ProcessMeter) SupportedMetrics() []metrics.Metric {
	return []metrics.Metric{
		pidMetric, userMetric, etimeMetric, startMetric, rssMetric, vszMetric,
		minfltMetric, majfltMetric, ctxswMetric, threadsMetric, niceMetric, cpuMetric,
	}
}

// Measure fills every metric it can read; the rest stay placeholders.
func (m *ProcessMeter) Measure(ctx context.Context, vm *probing.VM) ([]metrics.Measure, error) {
	p, err := process.NewProcessWithContext(ctx, vm.PID())
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", vm.PID(), err)
	}

	out := []metrics.Measure{pidMetric.New(vm.PID())}
	add := func(metric metrics.Metric, v any, err error) {
		if err != nil {
			out = append(out, metric.Empty())
			return
		}
		out = append(out, metric.New(v))
	}

	user, err := p.UsernameWithContext(ctx)
	add(userMetric, user, err)

	created, err := p.CreateTimeWithContext(ctx)
	if err == nil {
		start := time.UnixMilli(created)
		add(startMetric, start, nil)
		add(etimeMetric, int64(m.now().Sub(start)/time.Second), nil)
	} else {
		add(startMetric, nil, err)
		add(etimeMetric, nil, err)
	}

	if mem, err := p.MemoryInfoWithContext(ctx); err == nil {
		add(rssMetric, mem.RSS, nil)
		add(vszMetric, mem.VMS, nil)
	} else {
		add(rssMetric, nil, err)
		add(vszMetric, nil, err)
	}

	if faults, err := p.PageFaultsWithContext(ctx); err == nil {
		add(minfltMetric, faults.MinorFaults, nil)
		add(majfltMetric, faults.MajorFaults, nil)
	} else {
		add(minfltMetric, nil, err)
		add(majfltMetric, nil, err)
	}

	if sw, err := p.NumCtxSwitchesWithContext(ctx); err == nil {
		add(ctxswMetric, sw.Voluntary+sw.Involuntary, nil)
	} else {
		add(ctxswMetric, nil, err)
	}

	threads, err := p.NumThreadsWithContext(ctx)
	add(threadsMetric, threads, err)

	nice, err := p.NiceWithContext(ctx)
	add(niceMetric, nice, err)

	cpu, err := p.CPUPercentWithContext(ctx)
	add(cpuMetric, math.Round(cpu*10)/10, err)

	return out, nil
}
