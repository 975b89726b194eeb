// Package geometry plans fixed-size preview windows around a point inside a bounded surface and
// renders them from captured images.
package geometry

import (
	"github.com/aretw0/clickflow/pkg/domain"
)

// CropPlan is the crop rectangle inside the source bounds plus the padding that brings it to
// Size×Size. Right and Bottom are exclusive.
type CropPlan struct {
	Size int `json:"size" yaml:"size"`

	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`

	PadLeft   int `json:"pad_left" yaml:"pad_left"`
	PadTop    int `json:"pad_top" yaml:"pad_top"`
	PadRight  int `json:"pad_right" yaml:"pad_right"`
	PadBottom int `json:"pad_bottom" yaml:"pad_bottom"`
}

func (p CropPlan) CropW() int { return p.Right - p.Left }
func (p CropPlan) CropH() int { return p.Bottom - p.Top }

// Width is the padded width; it equals Size for every plan returned by Plan.
func (p CropPlan) Width() int { return p.PadLeft + p.CropW() + p.PadRight }

// Height is the padded height; it equals Size for every plan returned by Plan.
func (p CropPlan) Height() int { return p.PadTop + p.CropH() + p.PadBottom }

// Padded reports whether any side needs padding.
func (p CropPlan) Padded() bool {
	return p.PadLeft != 0 || p.PadTop != 0 || p.PadRight != 0 || p.PadBottom != 0
}

// Plan computes the crop plan for a size×size window centred on (clickX+dx, clickY+dy) inside
// [0,boundW)×[0,boundH). The parts of the ideal window that fall outside the bounds become padding,
// so the centre lands on pixel (size/2, size/2) of the padded image whenever it lies inside the
// bounds. The crop is never empty.
func Plan(clickX, clickY, boundW, boundH, size, dx, dy int) (CropPlan, error) {
	if size <= 0 {
		return CropPlan{}, domain.Invalid("size", "must be > 0", size)
	}
	if boundW <= 0 {
		return CropPlan{}, domain.Invalid("bound_w", "must be > 0", boundW)
	}
	if boundH <= 0 {
		return CropPlan{}, domain.Invalid("bound_h", "must be > 0", boundH)
	}

	half := size / 2
	left, right, padL, padR := axis(clickX+dx-half, size, boundW)
	top, bottom, padT, padB := axis(clickY+dy-half, size, boundH)

	return CropPlan{
		Size:      size,
		Left:      left,
		Top:       top,
		Right:     right,
		Bottom:    bottom,
		PadLeft:   padL,
		PadTop:    padT,
		PadRight:  padR,
		PadBottom: padB,
	}, nil
}

// axis plans one dimension: the ideal span [lo0, lo0+size) against [0, bound).
func axis(lo0, size, bound int) (lo, hi, padLo, padHi int) {
	hi0 := lo0 + size

	padLo = max(0, -lo0)
	padHi = max(0, hi0-bound)

	lo = clamp(lo0, 0, bound)
	hi = clamp(hi0, 0, bound)

	// A window entirely outside the bounds clamps to nothing; keep the nearest edge pixel.
	if hi <= lo {
		if lo >= bound {
			lo = bound - 1
		}
		hi = lo + 1
	}

	// Only the degenerate case above can break pad+crop == size. Trim or grow the far side first.
	excess := padLo + (hi - lo) + padHi - size
	switch {
	case excess > 0:
		cut := min(excess, padHi)
		padHi -= cut
		padLo -= excess - cut
	case excess < 0:
		padHi -= excess
	}
	return lo, hi, padLo, padHi
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
