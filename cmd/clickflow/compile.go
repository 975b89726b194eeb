package main

import (
	"os"

	"github.com/aretw0/clickflow/internal/cli"
	"github.com/aretw0/clickflow/pkg/emit"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile one flow into an action plan",
	Long: `Compiles a single flow into a plan. The plan is written to --out, or to stdout.
With --dry-run the parsed flow is shown instead and no anchor image is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _ := cmd.Flags().GetString("flow")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		params, err := compileParams(cmd, []string{flow})
		if err != nil {
			return err
		}
		params.DryRun = dryRun
		if dryRun && cli.IsTerminal(os.Stdout) && (params.Out == "" || params.Out == "-") {
			params.Style = "auto"
		}
		return cli.Compile(cmd.Context(), globals(cmd, nil), params)
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose several flows into one plan",
	Long:  `Compiles the flows in the given order into one plan. Any failing flow aborts the whole plan.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, _ := cmd.Flags().GetStringSlice("flows")
		params, err := compileParams(cmd, cli.SplitList(flows))
		if err != nil {
			return err
		}
		return cli.Compile(cmd.Context(), globals(cmd, nil), params)
	},
}

func compileParams(cmd *cobra.Command, ids []string) (cli.CompileParams, error) {
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	noConfidence, _ := cmd.Flags().GetBool("no-confidence")

	f, err := emit.ParseFormat(format)
	if err != nil {
		return cli.CompileParams{}, err
	}
	return cli.CompileParams{
		FlowIDs:       ids,
		Out:           out,
		Format:        f,
		UseConfidence: !noConfidence,
	}, nil
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(composeCmd)

	compileCmd.Flags().String("flow", "", "Flow id to compile")
	compileCmd.Flags().Bool("dry-run", false, "Show the parsed flow without compiling it")
	_ = compileCmd.MarkFlagRequired("flow")

	composeCmd.Flags().StringSlice("flows", nil, "Flow ids to compose, in execution order")
	_ = composeCmd.MarkFlagRequired("flows")

	for _, c := range []*cobra.Command{compileCmd, composeCmd} {
		c.Flags().String("out", "", "Output path, relative to the project (default stdout)")
		c.Flags().String("format", "json", "Output format: json, yaml or pyautogui")
		c.Flags().Bool("no-confidence", false, "Search anchors without a confidence threshold")
	}
}
