package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"JVMProfiler/pkg/collectors"
	"JVMProfiler/pkg/config"
	"JVMProfiler/pkg/profiling"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitUsage  = 2
	ExitMeters = 3
	ExitRun    = 4
)

// UsageError wraps a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var (
		usage   *UsageError
		invalid *config.ValidationError
		conf    *profiling.ConfigurationError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, collectors.ErrUnknownMeter):
		return ExitMeters
	case errors.As(err, &usage), errors.As(err, &invalid), errors.As(err, &conf):
		return ExitUsage
	default:
		return ExitRun
	}
}

// usageArgs reports argument count errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
