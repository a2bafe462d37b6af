// Package profiling runs measurement passes: it discovers targets, measures
// each one on a bounded worker pool and gathers the resulting records.
package profiling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"JVMProfiler/pkg/collectors"
	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
)

// State is the phase of the current measurement pass.
type State int32

const (
	Idle State = iota
	Discovering
	Dispatching
	Collecting
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Discovering:
		return "discovering"
	case Dispatching:
		return "dispatching"
	case Collecting:
		return "collecting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options configures a Profiler.
type Options struct {
	// ConcurrencyFactor scales the worker count to the number of targets.
	ConcurrencyFactor float64
	// Fields restricts records to these metric names. Empty keeps all.
	Fields []string
}

// Profiler measures every target of a host with a fixed set of meters.
// It is safe to call Measure repeatedly; each call builds its own pool.
type Profiler struct {
	host      probing.Host
	meters    []collectors.Meter
	factor    float64
	selected  metrics.NameSet
	supported []metrics.Metric
	logger    *zap.Logger
	state     atomic.Int32
}

type taskResult struct {
	record *metrics.Record
	err    error
}

// New validates opts against the meters and returns a ready Profiler.
func New(host probing.Host, meters []collectors.Meter, opts Options, logger *zap.Logger) (*Profiler, error) {
	if host == nil {
		return nil, &ConfigurationError{Reason: "no host"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := opts.ConcurrencyFactor
	if math.IsNaN(f) || f < 0 || f > 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("concurrency factor %v is outside [0, 1]", f)}
	}
	supported, err := SupportedMetrics(meters)
	if err != nil {
		return nil, err
	}
	selected, err := ValidateFields(supported, opts.Fields)
	if err != nil {
		return nil, err
	}

	return &Profiler{
		host:      host,
		meters:    meters,
		factor:    f,
		selected:  selected,
		supported: supported,
		logger:    logger.Named("profiling"),
	}, nil
}

// SupportedMetrics returns the union of the metrics the meters declare,
// deduplicated by name (first meter wins) and sorted by name.
func SupportedMetrics(meters []collectors.Meter) ([]metrics.Metric, error) {
	if len(meters) == 0 {
		return nil, &ConfigurationError{Reason: "no meters configured"}
	}
	seen := make(map[string]bool)
	var out []metrics.Metric
	for _, m := range meters {
		for _, metric := range m.SupportedMetrics() {
			if seen[metric.Name] {
				continue
			}
			seen[metric.Name] = true
			out = append(out, metric)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ValidateFields checks that every requested name is declared.
func ValidateFields(supported []metrics.Metric, fields []string) (metrics.NameSet, error) {
	selected := metrics.NewNameSet(fields...)
	declared := make(metrics.NameSet, len(supported))
	for _, m := range supported {
		declared[m.Name] = struct{}{}
	}
	var unknown []string
	for _, name := range selected.Sorted() {
		if !declared.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &ConfigurationError{Unknown: unknown}
	}
	return selected, nil
}

// WorkerCount returns round(targets*factor), at least 1 and at most
// targets when there is any target.
func WorkerCount(targets int, factor float64) int {
	if targets <= 0 {
		return 0
	}
	n := int(math.Round(float64(targets) * factor))
	if n < 1 {
		return 1
	}
	if n > targets {
		return targets
	}
	return n
}

// SupportedMetrics returns the metrics the profiler can produce.
func (p *Profiler) SupportedMetrics() []metrics.Metric {
	return append([]metrics.Metric(nil), p.supported...)
}

// Host returns the host being profiled.
func (p *Profiler) Host() probing.Host { return p.host }

// State returns the phase of the running or last pass.
func (p *Profiler) State() State {
	return State(p.state.Load())
}

func (p *Profiler) setState(s State) {
	p.state.Store(int32(s))
	p.logger.Debug("pass state", zap.Stringer("state", s))
}

// Measure runs one pass. Discovery failure aborts the pass; a failing
// target is logged and left out of the result. Records come back in
// discovery order, projected to the selected fields.
func (p *Profiler) Measure(ctx context.Context) ([]*metrics.Record, error) {
	p.setState(Discovering)
	targets, err := p.host.ListTargets(ctx)
	if err != nil {
		p.setState(Idle)
		var de *probing.DiscoveryError
		if !errors.As(err, &de) {
			err = &probing.DiscoveryError{Host: p.host.Name(), Err: err}
		}
		return nil, err
	}

	workers := WorkerCount(len(targets), p.factor)
	p.logger.Debug("dispatching", zap.Int("targets", len(targets)), zap.Int("workers", workers))

	p.setState(Dispatching)
	results := make([]taskResult, len(targets))
	if len(targets) > 0 {
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for i, t := range targets {
			i, t := i, t
			g.Go(func() error {
				results[i] = p.runTask(ctx, t)
				return nil
			})
		}
		p.setState(Collecting)
		_ = g.Wait()
	}

	records := make([]*metrics.Record, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			p.logger.Warn("target skipped", zap.Stringer("target", targets[i]), zap.Error(r.err))
			continue
		}
		if r.record.IsEmpty() {
			continue
		}
		records = append(records, r.record.ProjectTo(p.selected))
	}
	p.setState(Done)
	return records, nil
}

// Snapshot runs one pass and stamps the result.
func (p *Profiler) Snapshot(ctx context.Context) (*metrics.Snapshot, error) {
	records, err := p.Measure(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.NewSnapshot(p.host.Name(), records), nil
}

func (p *Profiler) runTask(ctx context.Context, t probing.Target) (res taskResult) {
	defer func() {
		if r := recover(); r != nil {
			res = taskResult{err: fmt.Errorf("panic while measuring: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return taskResult{err: err}
	}
	vm, err := p.host.Attach(ctx, t)
	if err != nil {
		return taskResult{err: err}
	}
	defer func() {
		if err := p.host.Detach(vm); err != nil {
			p.logger.Warn("detach failed", zap.Stringer("target", t), zap.Error(err))
		}
	}()

	rec := metrics.NewRecord().WithSource(t.String())
	failed := 0
	for _, m := range p.meters {
		// Placeholders keep every declared column present for rendering.
		fillMissing(rec, m)
		measures, err := m.Measure(ctx, vm)
		if err != nil {
			failed++
			p.logger.Info("meter failed", zap.Error(&ProducerError{Meter: m.Name(), Target: t.String(), Err: err}))
			continue
		}
		rec.Merge(measures...)
	}
	if failed == len(p.meters) {
		return taskResult{err: fmt.Errorf("all %d meters failed", failed)}
	}
	return taskResult{record: rec}
}

func fillMissing(rec *metrics.Record, m collectors.Meter) {
	for _, ph := range collectors.Placeholders(m) {
		if _, ok := rec.Get(ph.Name()); !ok {
			rec.Merge(ph)
		}
	}
}
