package metrics

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrIncomparable is returned when two measures cannot be ordered.
var ErrIncomparable = errors.New("measures are not comparable")

// Measure is a metric bound to one raw value for one target. A nil value
// is a placeholder for data that could not be collected.
type Measure struct {
	Metric Metric
	Value  any
}

// Name returns the metric name of the measure.
func (m Measure) Name() string {
	return m.Metric.Name
}

// IsPlaceholder reports whether the measure carries no value.
func (m Measure) IsPlaceholder() bool {
	return m.Value == nil
}

// DisplayValue renders the raw value according to the metric kind.
func (m Measure) DisplayValue() string {
	if m.Value == nil {
		return Placeholder
	}
	switch m.Metric.Kind {
	case AutoScale:
		if f, ok := ToFloat(m.Value); ok {
			return FormatScaled(f)
		}
	case Duration:
		if d, ok := m.Value.(time.Duration); ok {
			return FormatDuration(int64(d / time.Second))
		}
		if f, ok := ToFloat(m.Value); ok {
			return FormatDuration(int64(f))
		}
	case DateTime:
		if t, ok := m.Value.(time.Time); ok {
			return FormatDateTime(t)
		}
	}
	return fmt.Sprint(m.Value)
}

func (m Measure) String() string {
	return m.Name() + "=" + m.DisplayValue()
}

// Compare orders m against other by raw value. Both measures must belong to
// the same metric and carry values of a compatible type. Placeholders sort
// first.
func (m Measure) Compare(other Measure) (int, error) {
	if m.Metric != other.Metric {
		return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, m.Name(), other.Name())
	}
	switch {
	case m.Value == nil && other.Value == nil:
		return 0, nil
	case m.Value == nil:
		return -1, nil
	case other.Value == nil:
		return 1, nil
	}

	if a, ok := toInt(m.Value); ok {
		if b, ok := toInt(other.Value); ok {
			return cmp.Compare(a, b), nil
		}
	}
	if a, ok := ToFloat(m.Value); ok {
		if b, ok := ToFloat(other.Value); ok {
			return cmp.Compare(a, b), nil
		}
	}
	switch a := m.Value.(type) {
	case string:
		if b, ok := other.Value.(string); ok {
			return strings.Compare(a, b), nil
		}
	case time.Time:
		if b, ok := other.Value.(time.Time); ok {
			return a.Compare(b), nil
		}
	}
	return 0, fmt.Errorf("%w: %s holds %T and %T", ErrIncomparable, m.Name(), m.Value, other.Value)
}

// ToFloat converts numeric raw values to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case time.Duration:
		return n.Seconds(), true
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return math.NaN(), false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}
