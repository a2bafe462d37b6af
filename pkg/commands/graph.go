package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"JVMProfiler/pkg/config"
	"JVMProfiler/pkg/graphing"
)

func newGraphCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Aliases: []string{"g"},
		Use:     "graph <out.html>",
		Short:   "Write one measurement as an HTML chart page",
		Long: `Run one measurement pass and write a chart page with one bar chart
per numeric field, keyed by pid.

Example:
  jvmprof graph jvms.html
  jvmprof graph -o heapUse,gcTime report/jvms.html`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			snap, err := s.profiler.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if err := graphing.WriteFile(args[0], snap); err != nil {
				return fmt.Errorf("failed to write graph: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Graph written to: %s\n", args[0])
			return nil
		},
	}
}
