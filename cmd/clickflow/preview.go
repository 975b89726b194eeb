package main

import (
	"github.com/aretw0/clickflow/internal/cli"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Plan the preview window around a click",
	Long: `Prints the crop plan of a fixed-size preview centred on a click, padded where it leaves the
screen. With --image the preview is also rendered from a PNG screenshot into --out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		bound, _ := cmd.Flags().GetString("bound")
		size, _ := cmd.Flags().GetInt("size")
		dx, _ := cmd.Flags().GetInt("dx")
		dy, _ := cmd.Flags().GetInt("dy")
		img, _ := cmd.Flags().GetString("image")
		out, _ := cmd.Flags().GetString("out")

		params := cli.PreviewParams{X: x, Y: y, Size: size, DX: dx, DY: dy, Image: img, Out: out}
		if bound != "" {
			s, err := cli.ParseScreen(bound)
			if err != nil {
				return err
			}
			params.BoundW, params.BoundH = s.W, s.H
		}
		_, err := cli.Preview(globals(cmd, nil), params)
		return err
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Int("x", 0, "Click x")
	previewCmd.Flags().Int("y", 0, "Click y")
	previewCmd.Flags().String("bound", "", "Surface size WxH (default: the image size)")
	previewCmd.Flags().Int("size", domain.DefaultPreviewSize, "Preview side in pixels")
	previewCmd.Flags().Int("dx", 0, "Horizontal calibration offset")
	previewCmd.Flags().Int("dy", 0, "Vertical calibration offset")
	previewCmd.Flags().String("image", "", "PNG screenshot to render the preview from")
	previewCmd.Flags().String("out", "", "Where to write the rendered PNG")
}
