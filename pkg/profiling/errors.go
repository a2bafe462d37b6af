package profiling

import (
	"fmt"
	"strings"
)

// ConfigurationError rejects a profiler configuration before any target is
// contacted.
type ConfigurationError struct {
	Unknown []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Unknown) > 0 {
		return fmt.Sprintf("unknown fields: %s", strings.Join(e.Unknown, ", "))
	}
	return "invalid configuration: " + e.Reason
}

// ProducerError records one meter failing on one target.
type ProducerError struct {
	Meter  string
	Target string
	Err    error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("meter %s on target %s: %v", e.Meter, e.Target, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }
