// Package formatting renders measurement snapshots: the aligned text table
// and the alternate machine-readable formats, all behind one registry.
package formatting

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"JVMProfiler/pkg/metrics"
)

// DefaultFormat is used when neither a name nor an extension selects one.
const DefaultFormat = "table"

// Format describes one output format.
type Format interface {
	Name() string
	Extensions() []string
	Writer(w io.Writer) Writer
}

// Writer writes snapshots to an underlying stream. Flush must be called
// once after the last snapshot.
type Writer interface {
	Write(s *metrics.Snapshot) error
	Flush() error
}

// catalog indexes formats by lower-cased name and by extension. Formats
// register from init, lookups happen afterwards from any goroutine.
type catalog struct {
	mu     sync.RWMutex
	byName map[string]Format
	byExt  map[string]Format
}

var formats = &catalog{
	byName: map[string]Format{},
	byExt:  map[string]Format{},
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// add indexes f. A second format under the same name is a programming error.
func (c *catalog) add(f Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := strings.ToLower(f.Name())
	if _, dup := c.byName[name]; dup {
		panic("formatting: format " + name + " registered twice")
	}
	c.byName[name] = f
	for _, ext := range f.Extensions() {
		c.byExt[normalizeExt(ext)] = f
	}
}

func (c *catalog) lookup(index map[string]Format, key string) (Format, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := index[key]
	return f, ok
}

func (c *catalog) names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register makes f selectable by name and by each of its extensions.
func Register(f Format) { formats.add(f) }

// Get looks a format up by name, ignoring case.
func Get(name string) (Format, bool) {
	return formats.lookup(formats.byName, strings.ToLower(name))
}

// GetByExtension looks a format up by extension, with or without the dot.
func GetByExtension(ext string) (Format, bool) {
	if ext == "" {
		return nil, false
	}
	return formats.lookup(formats.byExt, normalizeExt(ext))
}

// GetByPath infers the format from the extension of path.
func GetByPath(path string) (Format, bool) {
	return GetByExtension(filepath.Ext(path))
}

// List returns the registered format names in sorted order.
func List() []string { return formats.names() }
