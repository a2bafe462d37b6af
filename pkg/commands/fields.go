package commands

import (
	"github.com/spf13/cobra"

	"JVMProfiler/pkg/config"
)

func newFieldsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields the selected meters provide",
		Long: `List every field as "name: description", sorted by name.

Example:
  jvmprof fields
  jvmprof fields -m process`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFields(cmd.OutOrStdout(), cmd, cfg)
		},
	}
}
