package collectors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownMeter is returned when a requested meter is not registered.
var ErrUnknownMeter = errors.New("unknown meter")

// Factory builds a meter instance.
type Factory func() Meter

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a meter available under name. Registering a name twice
// panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name = strings.ToLower(name)
	if _, dup := registry[name]; dup {
		panic("collectors: meter registered twice: " + name)
	}
	registry[name] = f
}

// Names returns the registered meter names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

// New instantiates the named meters in the given order. With no names, every
// registered meter is returned in name order.
func New(names ...string) ([]Meter, error) {
	if len(names) == 0 {
		names = Names()
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	var unknown []string
	meters := make([]Meter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		f, ok := registry[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		meters = append(meters, f())
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownMeter,
			strings.Join(unknown, ", "), strings.Join(namesLocked(), ", "))
	}
	return meters, nil
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
