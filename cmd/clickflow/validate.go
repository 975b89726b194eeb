package main

import (
	"github.com/aretw0/clickflow/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the flow document for consistency",
	Long:  `Parses the whole document and compiles every anchored flow, checking that its anchor image exists.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.Validate(cmd.Context(), globals(cmd, args))
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
