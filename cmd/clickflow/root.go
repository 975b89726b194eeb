package main

import (
	"os"

	"github.com/aretw0/clickflow/internal/cli"
	"github.com/aretw0/clickflow/internal/logging"
	"github.com/aretw0/clickflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clickflow",
	Short: "clickflow compiles recorded click flows into executable action plans",
	Long: `clickflow turns flows recorded relative to an anchor image into ordered, absolute-ready
action plans (clicks, typing, hotkeys, waits) and composes several flows into one run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		level, _ := cmd.Flags().GetString("log-level")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		l, err := cli.CreateLogger(debug, level, jsonLogs)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// logger is configured from the persistent flags before any command runs.
var logger = logging.NewNop()

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !cli.IsInterrupted(err) {
			tui.NewErrorPrinter(os.Stderr).Print(err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the clickflow project")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default off, debug with --debug)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
}

// globals reads the persistent flags. A positional argument stands in for --dir when the flag is unset.
func globals(cmd *cobra.Command, args []string) *cli.Globals {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewGlobals(dir, debug, logger)
}
