// Package metrics defines the measurement model: metric descriptors, the
// measures bound to them and the per-target records that group measures.
package metrics

import (
	"fmt"
	"regexp"
)

// Kind selects how a measure of a metric is rendered for display.
type Kind int

const (
	Plain Kind = iota
	AutoScale
	Duration
	DateTime
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case AutoScale:
		return "autoscale"
	case Duration:
		return "duration"
	case DateTime:
		return "datetime"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Numeric reports whether measures of this kind carry numeric raw values.
func (k Kind) Numeric() bool {
	return k == AutoScale || k == Duration
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Metric describes a named quantity a meter can produce. Metrics are
// declared once and never mutated.
type Metric struct {
	Name        string
	Description string
	Kind        Kind
}

// NewMetric validates and returns a metric descriptor.
func NewMetric(name, description string, kind Kind) (Metric, error) {
	if !namePattern.MatchString(name) {
		return Metric{}, fmt.Errorf("invalid metric name %q: only letters, digits and underscore are allowed", name)
	}
	if description == "" {
		return Metric{}, fmt.Errorf("metric %s: description is required", name)
	}
	if kind < Plain || kind > DateTime {
		return Metric{}, fmt.Errorf("metric %s: unknown kind %d", name, int(kind))
	}
	return Metric{Name: name, Description: description, Kind: kind}, nil
}

// MustMetric is like NewMetric but panics on an invalid declaration.
// Meant for package-level metric tables.
func MustMetric(name, description string, kind Kind) Metric {
	m, err := NewMetric(name, description, kind)
	if err != nil {
		panic(err)
	}
	return m
}

// New binds a raw value to the metric.
func (m Metric) New(value any) Measure {
	return Measure{Metric: m, Value: value}
}

// Empty returns the placeholder measure for the metric.
func (m Metric) Empty() Measure {
	return Measure{Metric: m}
}

func (m Metric) String() string {
	return m.Name + ": " + m.Description
}
