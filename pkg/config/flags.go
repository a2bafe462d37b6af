package config

import (
	"github.com/spf13/pflag"
)

// Flag names, also used as viper keys.
const (
	FlagHost         = "host"
	FlagPerfDataRoot = "perfdata-root"
	FlagConcurrency  = "concurrency"
	FlagMeters       = "meters"
	FlagFields       = "fields"
	FlagFormat       = "format"
	FlagOutput       = "output"
	FlagGraph        = "graph"
	FlagInterval     = "interval"
	FlagCount        = "count"
	FlagLogLevel     = "log-level"
	FlagLogJSON      = "log-json"
	FlagConfig       = "config"
)

// AddTargetFlags adds the flags selecting what is measured.
func (c *Config) AddTargetFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Host, FlagHost, c.Host, "Host whose JVMs are measured")
	flags.StringVar(&c.PerfDataRoot, FlagPerfDataRoot, c.PerfDataRoot, "Directory holding hsperfdata_<user> directories")
	flags.Float64VarP(&c.ConcurrencyFactor, FlagConcurrency, "c", c.ConcurrencyFactor, "Worker count as a fraction of the targets (0..1)")
	flags.StringSliceVarP(&c.Meters, FlagMeters, "m", c.Meters, "Meters to load (comma list, default all)")
}

// AddOutputFlags adds the flags shaping the output.
func (c *Config) AddOutputFlags(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&c.Fields, FlagFields, "o", c.Fields, "Fields to display (comma list, default all)")
	flags.StringVarP(&c.Format, FlagFormat, "f", c.Format, "Output format (default: from --output extension, else table)")
	flags.StringVar(&c.Output, FlagOutput, c.Output, "Output file (stdout if empty)")
	flags.StringVar(&c.GraphOutput, FlagGraph, c.GraphOutput, "Also write an HTML chart page to this file")
}

// AddWatchFlags adds the repetition flags.
func (c *Config) AddWatchFlags(flags *pflag.FlagSet) {
	flags.DurationVar(&c.Interval, FlagInterval, c.Interval, "Delay between passes")
	flags.IntVar(&c.Count, FlagCount, c.Count, "Number of passes (0 runs until interrupted)")
}

// AddLogFlags adds logging and config file flags.
func (c *Config) AddLogFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.LogLevel, FlagLogLevel, c.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&c.LogJSON, FlagLogJSON, c.LogJSON, "Log as JSON")
	flags.StringVar(&c.ConfigFile, FlagConfig, c.ConfigFile, "Config file (yaml, json or toml)")
}

// AddAllFlags adds every flag group except the watch flags.
func (c *Config) AddAllFlags(flags *pflag.FlagSet) {
	c.AddTargetFlags(flags)
	c.AddOutputFlags(flags)
	c.AddLogFlags(flags)
}
