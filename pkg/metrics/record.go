package metrics

import (
	"sort"
	"strings"
)

// NameSet is a set of metric names. An empty set selects everything.
type NameSet map[string]struct{}

// NewNameSet builds a set from names, ignoring blanks.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Record groups the measures collected for one target, keyed by metric
// name. Merging a measure whose name is already present replaces it.
type Record struct {
	source   string
	measures map[string]Measure
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{measures: make(map[string]Measure)}
}

// WithSource labels the record with the target it was collected from.
func (r *Record) WithSource(source string) *Record {
	r.source = source
	return r
}

// Source returns the target label, if any.
func (r *Record) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

// Merge adds measures to the record and returns it for chaining.
func (r *Record) Merge(measures ...Measure) *Record {
	for _, m := range measures {
		r.measures[m.Name()] = m
	}
	return r
}

// Get returns the measure stored under name.
func (r *Record) Get(name string) (Measure, bool) {
	if r == nil {
		return Measure{}, false
	}
	m, ok := r.measures[name]
	return m, ok
}

// Len returns the number of measures.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.measures)
}

// IsEmpty reports whether the record holds no measures.
func (r *Record) IsEmpty() bool {
	return r.Len() == 0
}

// Names returns the metric names in the record, sorted.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.measures))
	for n := range r.measures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fields returns the measures ordered by metric name.
func (r *Record) Fields() []Measure {
	names := r.Names()
	fields := make([]Measure, len(names))
	for i, n := range names {
		fields[i] = r.measures[n]
	}
	return fields
}

// ProjectTo returns a new record holding only the measures named in names.
// An empty set yields an unfiltered copy.
func (r *Record) ProjectTo(names NameSet) *Record {
	out := NewRecord().WithSource(r.Source())
	if r == nil {
		return out
	}
	for n, m := range r.measures {
		if len(names) == 0 || names.Has(n) {
			out.measures[n] = m
		}
	}
	return out
}

func (r *Record) String() string {
	fields := r.Fields()
	parts := make([]string, len(fields))
	for i, m := range fields {
		parts[i] = m.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
