package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/geometry"
)

// PreviewParams are the inputs of preview.
type PreviewParams struct {
	X, Y           int
	BoundW, BoundH int
	Size           int
	DX, DY         int
	// Image is a PNG screenshot to crop. When set, unset bounds default to its size.
	Image string
	// Out is where the rendered PNG goes; required with Image.
	Out string
}

var markColor = color.RGBA{R: 255, A: 255}

// Preview prints the crop plan for a preview window and optionally renders it from a screenshot.
func Preview(g *Globals, p PreviewParams) (geometry.CropPlan, error) {
	if p.Size == 0 {
		p.Size = domain.DefaultPreviewSize
	}

	var src image.Image
	if p.Image != "" {
		if p.Out == "" {
			return geometry.CropPlan{}, domain.Missing("out")
		}
		img, err := decodePNG(g.resolve(p.Image))
		if err != nil {
			return geometry.CropPlan{}, err
		}
		src = img
		if p.BoundW == 0 && p.BoundH == 0 {
			p.BoundW, p.BoundH = img.Bounds().Dx(), img.Bounds().Dy()
		}
	}

	plan, err := geometry.Plan(p.X, p.Y, p.BoundW, p.BoundH, p.Size, p.DX, p.DY)
	if err != nil {
		return plan, err
	}

	enc := json.NewEncoder(g.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return plan, err
	}
	if src == nil {
		return plan, nil
	}

	dst := geometry.Render(src, plan)
	geometry.MarkCenter(dst, markColor)
	data, err := render(func(w io.Writer) error { return png.Encode(w, dst) })
	if err != nil {
		return plan, fmt.Errorf("failed to encode preview: %w", err)
	}
	return plan, g.writeOutput(p.Out, data)
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot %s: %w", path, err)
	}
	return img, nil
}
