// Package commands provides CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"JVMProfiler/pkg/collectors"
	"JVMProfiler/pkg/config"
	"JVMProfiler/pkg/profiling"
)

// NewRootCmd creates the root command with all subcommands. Each call owns
// its own configuration.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

// listing carries the outcome of the help field listing, which cobra gives
// no way to return.
type listing struct {
	err error
}

func newRoot() (*cobra.Command, *listing) {
	cfg := config.New()
	help := &listing{}

	root := &cobra.Command{
		Use:   "jvmprof",
		Short: "Statistics for the JVMs running on a host",
		Long: `jvmprof reads the performance counters every HotSpot JVM publishes
and prints one row per JVM.

Commands:
  fields   List the fields the selected meters provide
  watch    Repeat the measurement at an interval
  graph    Write one measurement as an HTML chart page

Example:
  jvmprof -o pid,heapUse,uptime
  jvmprof -m hotspot -f csv --output jvms.csv
  JVMPROF_PERFDATA_ROOT=/tmp jvmprof watch --interval 5s --count 10`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, cfg)
		},
	}

	cfg.AddAllFlags(root.PersistentFlags())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\nAvailable fields:")
		if err := listFields(out, cmd, cfg); err != nil {
			fmt.Fprintf(out, "  (%v)\n", err)
			help.err = err
		}
	})

	root.AddCommand(
		newFieldsCmd(cfg),
		newWatchCmd(cfg),
		newGraphCmd(cfg),
	)
	return root, help
}

// listFields resolves the configuration and meters, checks the requested
// fields against what the meters declare and writes "name: description"
// for every declared metric.
func listFields(w io.Writer, cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Load(cmd.Flags()); err != nil {
		return err
	}
	meters, err := collectors.New(cfg.Meters...)
	if err != nil {
		return err
	}
	supported, err := profiling.SupportedMetrics(meters)
	if err != nil {
		return err
	}
	if _, err := profiling.ValidateFields(supported, cfg.Fields); err != nil {
		return err
	}
	for _, m := range supported {
		if _, err := fmt.Fprintf(w, "  %s\n", m); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the command line args and returns the error that decides the
// exit code, including a failed field listing under --help.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, help := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	return help.err
}

// Execute runs the command line and exits with the mapped exit code.
func Execute() {
	err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jvmprof: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
