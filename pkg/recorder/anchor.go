package recorder

import "github.com/aretw0/clickflow/pkg/domain"

// AnchorFromClick builds the anchor for image captured at captureRect, with the reference point
// picked by a click in screen pixels. The click may land outside the capture; click_in_image is
// clamped into the image so the anchor always validates.
func AnchorFromClick(captureRect domain.Rect, image string, click domain.Point) domain.Anchor {
	rect := captureRect
	in := click.Sub(domain.Point{X: rect.X, Y: rect.Y})
	return domain.Anchor{
		Image: image,
		ClickInImage: domain.Point{
			X: min(max(in.X, 0), max(rect.W-1, 0)),
			Y: min(max(in.Y, 0), max(rect.H-1, 0)),
		},
		CaptureRect: &rect,
	}
}

// AnchorPoint is the absolute reference point of an anchor at its capture position. Pass it to New
// so recorded offsets agree with what the compiled plan resolves. ok is false without a capture_rect.
func AnchorPoint(a domain.Anchor) (p domain.Point, ok bool) {
	if a.CaptureRect == nil {
		return domain.Point{}, false
	}
	return domain.Point{X: a.CaptureRect.X, Y: a.CaptureRect.Y}.Add(a.ClickInImage), true
}
