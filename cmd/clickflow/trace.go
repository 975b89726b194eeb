package main

import (
	"github.com/aretw0/clickflow/internal/cli"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the inputs a plan would send",
	Long: `Runs the composed plan with every anchor pretended to be at --bbox and prints each click,
keystroke and hotkey instead of sending it. Delays are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, _ := cmd.Flags().GetStringSlice("flows")
		bbox, _ := cmd.Flags().GetString("bbox")
		screen, _ := cmd.Flags().GetString("screen")
		noConfidence, _ := cmd.Flags().GetBool("no-confidence")
		asGraph, _ := cmd.Flags().GetBool("graph")

		box, err := cli.ParseBox(bbox)
		if err != nil {
			return err
		}
		params := cli.TraceParams{
			FlowIDs:       cli.SplitList(flows),
			Box:           box,
			UseConfidence: !noConfidence,
			Graph:         asGraph,
		}
		if screen != "" {
			s, err := cli.ParseScreen(screen)
			if err != nil {
				return err
			}
			params.Screen = &s
		}
		return cli.Trace(cmd.Context(), globals(cmd, nil), params)
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the plan visualization",
	Long:  `Composes the flows and outputs a Mermaid diagram (graph TD) with one subgraph per flow.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, _ := cmd.Flags().GetStringSlice("flows")
		return cli.Graph(cmd.Context(), globals(cmd, nil), cli.SplitList(flows))
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(graphCmd)

	traceCmd.Flags().StringSlice("flows", nil, "Flow ids to run, in order")
	traceCmd.Flags().String("bbox", "0,0,0,0", "Anchor bounding box as x,y,w,h")
	traceCmd.Flags().String("screen", "", "Screen size WxH (default: the recorded size)")
	traceCmd.Flags().Bool("no-confidence", false, "Search anchors without a confidence threshold")
	traceCmd.Flags().Bool("graph", false, "Print a Mermaid chart of the executed actions instead")
	_ = traceCmd.MarkFlagRequired("flows")

	graphCmd.Flags().StringSlice("flows", nil, "Flow ids to chart, in order")
	_ = graphCmd.MarkFlagRequired("flows")
}
