package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JVMPROF_PERFDATA_ROOT.
const EnvPrefix = "JVMPROF"

// Load overlays environment variables and the optional config file onto c.
// Precedence, highest first: flags set on the command line, environment,
// config file, the values already in c.
func (c *Config) Load(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("cannot bind flags: %w", err)
		}
	}
	c.setDefaults(v)

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return &ValidationError{"config file", err.Error()}
		}
		c.ConfigFile = path
	}

	c.Host = v.GetString(FlagHost)
	c.PerfDataRoot = v.GetString(FlagPerfDataRoot)
	c.ConcurrencyFactor = v.GetFloat64(FlagConcurrency)
	c.Meters = listValue(v.Get(FlagMeters))
	c.Fields = listValue(v.Get(FlagFields))
	c.Format = v.GetString(FlagFormat)
	c.Output = v.GetString(FlagOutput)
	c.GraphOutput = v.GetString(FlagGraph)
	c.Interval = v.GetDuration(FlagInterval)
	c.Count = v.GetInt(FlagCount)
	c.LogLevel = v.GetString(FlagLogLevel)
	c.LogJSON = v.GetBool(FlagLogJSON)

	c.ApplyDefaults()
	return nil
}

// setDefaults registers the current values so keys without a bound flag
// still resolve from the environment and the config file.
func (c *Config) setDefaults(v *viper.Viper) {
	v.SetDefault(FlagHost, c.Host)
	v.SetDefault(FlagPerfDataRoot, c.PerfDataRoot)
	v.SetDefault(FlagConcurrency, c.ConcurrencyFactor)
	v.SetDefault(FlagMeters, c.Meters)
	v.SetDefault(FlagFields, c.Fields)
	v.SetDefault(FlagFormat, c.Format)
	v.SetDefault(FlagOutput, c.Output)
	v.SetDefault(FlagGraph, c.GraphOutput)
	v.SetDefault(FlagInterval, c.Interval)
	v.SetDefault(FlagCount, c.Count)
	v.SetDefault(FlagLogLevel, c.LogLevel)
	v.SetDefault(FlagLogJSON, c.LogJSON)
	v.SetDefault(FlagConfig, c.ConfigFile)
}

// listValue accepts a list from a flag or file, or a comma separated string
// from the environment.
func listValue(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return splitList([]string{v})
	case []string:
		return splitList(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
		return splitList(items)
	default:
		return splitList([]string{fmt.Sprint(v)})
	}
}
