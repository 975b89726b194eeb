package geometry

import (
	"image"
	"image/color"
	"image/draw"
)

// Render applies plan to src: it crops the plan rectangle, taken relative to src.Bounds().Min, and
// pads with opaque black. The result is always Size×Size with its origin at (0,0).
func Render(src image.Image, plan CropPlan) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, plan.Size, plan.Size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	origin := src.Bounds().Min
	crop := image.Rect(plan.Left, plan.Top, plan.Right, plan.Bottom).Add(origin).Intersect(src.Bounds())
	if crop.Empty() {
		return dst
	}

	at := image.Pt(plan.PadLeft, plan.PadTop)
	target := image.Rectangle{Min: at, Max: at.Add(crop.Size())}.Intersect(dst.Bounds())
	draw.Draw(dst, target, src, crop.Min, draw.Src)
	return dst
}

// MarkCenter draws the centre cross used on stored previews.
func MarkCenter(img draw.Image, c color.Color) {
	b := img.Bounds()
	size := min(b.Dx(), b.Dy())
	if size == 0 {
		return
	}
	centre := b.Min.Add(image.Pt(size/2, size/2))
	arm := max(6, size*12/100)

	u := image.NewUniform(c)
	horizontal := image.Rect(centre.X-arm, centre.Y-1, centre.X+arm+1, centre.Y+1)
	vertical := image.Rect(centre.X-1, centre.Y-arm, centre.X+1, centre.Y+arm+1)
	draw.Draw(img, horizontal.Intersect(b), u, image.Point{}, draw.Over)
	draw.Draw(img, vertical.Intersect(b), u, image.Point{}, draw.Over)
}
