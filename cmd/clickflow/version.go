package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/internal/cli"
	"github.com/aretw0/clickflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of clickflow",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if cli.IsTerminal(out) {
			tui.PrintBanner(out, strings.TrimSpace(clickflow.Version))
			return
		}
		fmt.Fprintf(out, "clickflow version %s\n", strings.TrimSpace(clickflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
