package collectors

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/net"

	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
)

func init() {
	Register("ports", func() Meter { return &PortsMeter{connections: net.ConnectionsPidWithContext} })
}

var listenPortsMetric = metrics.MustMetric("listenPorts", "tcp ports the process listens on", metrics.Plain)

// PortsMeter lists the TCP ports a target listens on.
type PortsMeter struct {
	connections func(ctx context.Context, kind string, pid int32) ([]net.ConnectionStat, error)
}

func (m *PortsMeter) Name() string { return "ports" }

func (m *PortsMeter) SupportedMetrics() []metrics.Metric {
	return []metrics.Metric{listenPortsMetric}
}

func (m *PortsMeter) Measure(ctx context.Context, vm *probing.VM) ([]metrics.Measure, error) {
	conns, err := m.connections(ctx, "tcp", vm.PID())
	if err != nil {
		return nil, fmt.Errorf("connections of %d: %w", vm.PID(), err)
	}

	seen := make(map[uint32]bool)
	var ports []int
	for _, c := range conns {
		if c.Status != "LISTEN" || seen[c.Laddr.Port] {
			continue
		}
		seen[c.Laddr.Port] = true
		ports = append(ports, int(c.Laddr.Port))
	}
	if len(ports) == 0 {
		return []metrics.Measure{listenPortsMetric.Empty()}, nil
	}

	sort.Ints(ports)
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return []metrics.Measure{listenPortsMetric.New(strings.Join(parts, ","))}, nil
}
