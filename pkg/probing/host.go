// Package probing discovers JVM targets on a host and attaches to their
// instrumentation buffers.
package probing

import (
	"context"
	"strconv"

	"JVMProfiler/pkg/perfdata"
)

// Target identifies one JVM reachable on a host.
type Target struct {
	PID  int32
	User string
	Path string
}

func (t Target) String() string {
	return strconv.Itoa(int(t.PID))
}

// Host enumerates targets and manages attach handles to them.
type Host interface {
	Name() string
	ListTargets(ctx context.Context) ([]Target, error)
	Attach(ctx context.Context, t Target) (*VM, error)
	Detach(vm *VM) error
}

// VM is an attach handle to one target. Counter values are read once at
// attach time.
type VM struct {
	target   Target
	counters perfdata.Counters
	mapping  []byte
}

// NewVM builds a handle over already decoded counters.
func NewVM(t Target, counters perfdata.Counters) *VM {
	if counters == nil {
		counters = perfdata.Counters{}
	}
	return &VM{target: t, counters: counters}
}

func (v *VM) Target() Target              { return v.target }
func (v *VM) PID() int32                  { return v.target.PID }
func (v *VM) Counters() perfdata.Counters { return v.counters }

// Has reports whether the target publishes the named counter.
func (v *VM) Has(name string) bool {
	_, ok := v.counters[name]
	return ok
}

// Long returns a numeric counter or def.
func (v *VM) Long(name string, def int64) int64 {
	return v.counters.Long(name, def)
}

// String returns a string counter, empty when absent.
func (v *VM) String(name string) string {
	s, _ := v.counters.String(name)
	return s
}
