// Package collectors holds the meters that read measures from an attached
// JVM, and the registry they are resolved from.
package collectors

import (
	"context"

	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
)

// Meter produces named measures for one attached target. Implementations
// must be safe for concurrent use across targets.
type Meter interface {
	Name() string
	SupportedMetrics() []metrics.Metric
	Measure(ctx context.Context, vm *probing.VM) ([]metrics.Measure, error)
}

// Placeholders returns an empty measure for every metric m declares.
func Placeholders(m Meter) []metrics.Measure {
	declared := m.SupportedMetrics()
	out := make([]metrics.Measure, len(declared))
	for i, metric := range declared {
		out[i] = metric.Empty()
	}
	return out
}
