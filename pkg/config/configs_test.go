package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// ============================================================================
// Defaults and validation
// ============================================================================

func TestNew_Defaults(t *testing.T) {
	c := New()
	if c.Host != "localhost" {
		t.Errorf("Host = %q; want localhost", c.Host)
	}
	if c.PerfDataRoot != os.TempDir() {
		t.Errorf("PerfDataRoot = %q; want %q", c.PerfDataRoot, os.TempDir())
	}
	if c.ConcurrencyFactor != 1 || c.Format != "" || c.Interval != 2*time.Second || c.LogLevel != "warn" {
		t.Errorf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"factor above one", func(c *Config) { c.ConcurrencyFactor = 1.5 }, "concurrency"},
		{"negative factor", func(c *Config) { c.ConcurrencyFactor = -0.1 }, "concurrency"},
		{"NaN factor", func(c *Config) { c.ConcurrencyFactor = math.NaN() }, "concurrency"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval"},
		{"negative count", func(c *Config) { c.Count = -1 }, "count"},
		{"unknown format", func(c *Config) { c.Format = "xml" }, "format"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"output is a directory", func(c *Config) { c.Output = os.TempDir() }, "output"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			tc.mut(c)
			var ve *ValidationError
			if err := c.Validate(); !errors.As(err, &ve) || ve.Field != tc.field {
				t.Errorf("Validate() = %v; want ValidationError on %s", err, tc.field)
			}
		})
	}

	c := New()
	c.ConcurrencyFactor = 0
	if err := c.Validate(); err != nil {
		t.Errorf("factor 0 rejected: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{Meters: []string{"hotspot, process", ""}, Fields: []string{" pid "}}
	c.ApplyDefaults()
	if c.Host != "localhost" || c.Interval != DefaultInterval || c.LogLevel != DefaultLogLevel {
		t.Errorf("ApplyDefaults = %+v", c)
	}
	if want := []string{"hotspot", "process"}; !reflect.DeepEqual(c.Meters, want) {
		t.Errorf("Meters = %v; want %v", c.Meters, want)
	}
	if want := []string{"pid"}; !reflect.DeepEqual(c.Fields, want) {
		t.Errorf("Fields = %v; want %v", c.Fields, want)
	}
}

// ============================================================================
// Flags, environment and config file
// ============================================================================

func newFlags(c *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.AddAllFlags(fs)
	c.AddWatchFlags(fs)
	return fs
}

func TestLoad_Flags(t *testing.T) {
	c := New()
	fs := newFlags(c)
	args := []string{"-c", "0.5", "-m", "hotspot,process", "-o", "pid,heapUse", "-f", "csv", "--count", "3"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(fs); err != nil {
		t.Fatal(err)
	}
	if c.ConcurrencyFactor != 0.5 || c.Format != "csv" || c.Count != 3 {
		t.Errorf("config = %+v", c)
	}
	if want := []string{"hotspot", "process"}; !reflect.DeepEqual(c.Meters, want) {
		t.Errorf("Meters = %v; want %v", c.Meters, want)
	}
	if want := []string{"pid", "heapUse"}; !reflect.DeepEqual(c.Fields, want) {
		t.Errorf("Fields = %v; want %v", c.Fields, want)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JVMPROF_PERFDATA_ROOT", "/srv/perf")
	t.Setenv("JVMPROF_FIELDS", "pid,uptime")
	t.Setenv("JVMPROF_INTERVAL", "5s")
	t.Setenv("JVMPROF_FORMAT", "yaml")

	c := New()
	fs := newFlags(c)
	if err := fs.Parse([]string{"--format", "jsonl"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(fs); err != nil {
		t.Fatal(err)
	}
	if c.PerfDataRoot != "/srv/perf" {
		t.Errorf("PerfDataRoot = %q; want /srv/perf", c.PerfDataRoot)
	}
	if c.Interval != 5*time.Second {
		t.Errorf("Interval = %v; want 5s", c.Interval)
	}
	if want := []string{"pid", "uptime"}; !reflect.DeepEqual(c.Fields, want) {
		t.Errorf("Fields = %v; want %v", c.Fields, want)
	}
	if c.Format != "jsonl" {
		t.Errorf("Format = %q; explicit flag should beat the environment", c.Format)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jvmprof.yaml")
	body := "host: localhost\nconcurrency: 0.25\nmeters:\n  - hotspot\nlog-level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	fs := newFlags(c)
	if err := fs.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(fs); err != nil {
		t.Fatal(err)
	}
	if c.ConcurrencyFactor != 0.25 || c.LogLevel != "debug" {
		t.Errorf("config = %+v", c)
	}
	if want := []string{"hotspot"}; !reflect.DeepEqual(c.Meters, want) {
		t.Errorf("Meters = %v; want %v", c.Meters, want)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	c := New()
	c.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	var ve *ValidationError
	if err := c.Load(nil); !errors.As(err, &ve) {
		t.Errorf("Load() = %v; want ValidationError", err)
	}
}
