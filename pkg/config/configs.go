// Package config provides configuration management for the profiler.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"JVMProfiler/pkg/formatting"
	"JVMProfiler/pkg/probing"
)

// Config holds all profiler configuration options.
type Config struct {
	// Target settings
	Host              string
	PerfDataRoot      string
	ConcurrencyFactor float64
	Meters            []string

	// Output settings
	Fields      []string
	// Format names an output format; empty infers it from Output.
	Format      string
	Output      string
	GraphOutput string

	// Watch settings
	Interval time.Duration
	Count    int

	// Logging
	LogLevel string
	LogJSON  bool

	ConfigFile string
}

// Default configuration values.
const (
	DefaultConcurrency = 1.0
	DefaultInterval    = 2 * time.Second
	DefaultLogLevel    = "warn"
)

// ValidationError reports a configuration value that cannot be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Host:              probing.LocalHostName,
		PerfDataRoot:      os.TempDir(),
		ConcurrencyFactor: DefaultConcurrency,
		Interval:          DefaultInterval,
		LogLevel:          DefaultLogLevel,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if f := c.ConcurrencyFactor; math.IsNaN(f) || f < 0 || f > 1 {
		return &ValidationError{"concurrency", fmt.Sprintf("%v is outside [0, 1]", f)}
	}
	if c.Interval <= 0 {
		return &ValidationError{"interval", fmt.Sprintf("must be positive, got %v", c.Interval)}
	}
	if c.Count < 0 {
		return &ValidationError{"count", fmt.Sprintf("cannot be negative, got %d", c.Count)}
	}
	if c.Format != "" {
		if _, ok := formatting.Get(c.Format); !ok {
			return &ValidationError{"format", fmt.Sprintf("%s (valid: %s)", c.Format, strings.Join(formatting.List(), ", "))}
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{"log level", c.LogLevel}
	}
	if c.Output != "" {
		if info, err := os.Stat(c.Output); err == nil && info.IsDir() {
			return &ValidationError{"output", fmt.Sprintf("%s is a directory", c.Output)}
		}
	}
	return nil
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = probing.LocalHostName
	}
	if c.PerfDataRoot == "" {
		c.PerfDataRoot = os.TempDir()
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Meters = splitList(c.Meters)
	c.Fields = splitList(c.Fields)
}

// splitList flattens comma separated entries and drops blanks.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
