package collectors

import (
	"context"
	"errors"
	"strconv"

	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
)

// Missing counters are reported as -1.
const missing int64 = -1

const hrtFrequency = "sun.os.hrt.frequency"

// ErrNoCounters is returned when a target publishes no HotSpot counters.
var ErrNoCounters = errors.New("target publishes no hotspot counters")

func init() {
	Register("hotspot", func() Meter { return &HotspotMeter{} })
}

type counterMetric struct {
	metric metrics.Metric
	read   func(vm *probing.VM) any
}

func space(gen, sp int, field string) string {
	return "sun.gc.generation." + strconv.Itoa(gen) + ".space." + strconv.Itoa(sp) + "." + field
}

func generation(gen int, field string) string {
	return "sun.gc.generation." + strconv.Itoa(gen) + "." + field
}

func collector(n int, field string) string {
	return "sun.gc.collector." + strconv.Itoa(n) + "." + field
}

// sum adds the counters that are present; -1 when none are.
func sum(names ...string) func(*probing.VM) any {
	return func(vm *probing.VM) any {
		var total int64
		found := false
		for _, n := range names {
			if vm.Has(n) {
				total += vm.Long(n, 0)
				found = true
			}
		}
		if !found {
			return missing
		}
		return total
	}
}

// seconds converts hrt ticks to whole seconds.
func seconds(names ...string) func(*probing.VM) any {
	ticks := sum(names...)
	return func(vm *probing.VM) any {
		freq := vm.Long(hrtFrequency, 0)
		t := ticks(vm).(int64)
		if freq <= 0 || t < 0 {
			return missing
		}
		return t / freq
	}
}

func str(name string) func(*probing.VM) any {
	return func(vm *probing.VM) any {
		if !vm.Has(name) {
			return nil
		}
		return vm.String(name)
	}
}

func scaled(name, desc string, read func(*probing.VM) any) counterMetric {
	return counterMetric{metrics.MustMetric(name, desc, metrics.AutoScale), read}
}

func elapsed(name, desc string, read func(*probing.VM) any) counterMetric {
	return counterMetric{metrics.MustMetric(name, desc, metrics.Duration), read}
}

func plain(name, desc string, read func(*probing.VM) any) counterMetric {
	return counterMetric{metrics.MustMetric(name, desc, metrics.Plain), read}
}

var hotspotMetrics = []counterMetric{
	scaled("edenMax", "eden space max capacity", sum(space(0, 0, "maxCapacity"))),
	scaled("edenCap", "eden space current capacity", sum(space(0, 0, "capacity"))),
	scaled("edenUse", "eden space usage", sum(space(0, 0, "used"))),
	scaled("sur0Max", "survivor 0 max capacity", sum(space(0, 1, "maxCapacity"))),
	scaled("sur0Cap", "survivor 0 current capacity", sum(space(0, 1, "capacity"))),
	scaled("sur0Use", "survivor 0 usage", sum(space(0, 1, "used"))),
	scaled("sur1Max", "survivor 1 max capacity", sum(space(0, 2, "maxCapacity"))),
	scaled("sur1Cap", "survivor 1 current capacity", sum(space(0, 2, "capacity"))),
	scaled("sur1Use", "survivor 1 usage", sum(space(0, 2, "used"))),
	scaled("oldgMax", "old gen max capacity", sum(generation(1, "maxCapacity"))),
	scaled("oldgCap", "old gen current capacity", sum(generation(1, "capacity"))),
	scaled("oldgUse", "old gen usage", sum(space(1, 0, "used"))),
	scaled("permMax", "perm gen max capacity", sum(generation(2, "maxCapacity"))),
	scaled("permCap", "perm gen current capacity", sum(generation(2, "capacity"))),
	scaled("permUse", "perm gen usage", sum(space(2, 0, "used"))),
	scaled("metaMax", "metaspace max capacity", sum("sun.gc.metaspace.maxCapacity")),
	scaled("metaCap", "metaspace current capacity", sum("sun.gc.metaspace.capacity")),
	scaled("metaUse", "metaspace usage", sum("sun.gc.metaspace.used")),
	scaled("heapMax", "heap max capacity",
		sum(generation(0, "maxCapacity"), generation(1, "maxCapacity"), generation(2, "maxCapacity"))),
	scaled("heapCap", "heap current capacity",
		sum(generation(0, "capacity"), generation(1, "capacity"), generation(2, "capacity"))),
	scaled("heapUse", "heap usage",
		sum(space(0, 0, "used"), space(0, 1, "used"), space(0, 2, "used"), space(1, 0, "used"), space(2, 0, "used"))),
	scaled("clsLoad", "classes loaded", sum("java.cls.loadedClasses", "java.cls.sharedLoadedClasses")),
	scaled("clsUnld", "classes unloaded", sum("java.cls.unloadedClasses", "java.cls.sharedUnloadedClasses")),
	scaled("thrLive", "live threads", sum("java.threads.live")),
	scaled("thrPeak", "peak live threads", sum("java.threads.livePeak")),
	scaled("thrDaemon", "live daemon threads", sum("java.threads.daemon")),
	scaled("thrStart", "threads started", sum("java.threads.started")),
	scaled("ygcCnt", "young gc count", sum(collector(0, "invocations"))),
	scaled("fgcCnt", "full gc count", sum(collector(1, "invocations"))),
	elapsed("clsLoadTime", "time spent loading classes", seconds("sun.cls.time")),
	elapsed("ygcTime", "time spent in young gc", seconds(collector(0, "time"))),
	elapsed("fgcTime", "time spent in full gc", seconds(collector(1, "time"))),
	elapsed("gcTime", "total time spent in gc", seconds(collector(0, "time"), collector(1, "time"))),
	elapsed("uptime", "vm uptime", seconds("sun.os.hrt.ticks")),
	plain("vmName", "vm name", str("java.property.java.vm.name")),
	plain("vmVendor", "vm vendor", str("java.property.java.vm.vendor")),
	plain("vmVersion", "vm version string", str("java.property.java.vm.version")),
}

// HotspotMeter reads the HotSpot performance counters of a target.
type HotspotMeter struct{}

func (m *HotspotMeter) Name() string { return "hotspot" }

func (m *HotspotMeter) SupportedMetrics() []metrics.Metric {
	out := make([]metrics.Metric, len(hotspotMetrics))
	for i, cm := range hotspotMetrics {
		out[i] = cm.metric
	}
	return out
}

func (m *HotspotMeter) Measure(_ context.Context, vm *probing.VM) ([]metrics.Measure, error) {
	if len(vm.Counters()) == 0 {
		return nil, ErrNoCounters
	}
	out := make([]metrics.Measure, len(hotspotMetrics))
	for i, cm := range hotspotMetrics {
		out[i] = cm.metric.New(cm.read(vm))
	}
	return out, nil
}
