package geometry

import (
	"testing"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_CenterNoPadding(t *testing.T) {
	p, err := Plan(500, 400, 1000, 800, 120, 0, 0)
	require.NoError(t, err)
	assert.False(t, p.Padded())
	assert.Equal(t, 120, p.CropW())
	assert.Equal(t, 120, p.CropH())
	assert.Equal(t, CropPlan{Size: 120, Left: 440, Top: 340, Right: 560, Bottom: 460}, p)
}

func TestPlan_TopLeftPadding(t *testing.T) {
	p, err := Plan(0, 0, 1000, 800, 120, 0, 0)
	require.NoError(t, err)
	assert.Positive(t, p.PadLeft)
	assert.Positive(t, p.PadTop)
	assert.Zero(t, p.PadRight)
	assert.Zero(t, p.PadBottom)
	assert.Equal(t, 0, p.Left)
	assert.Equal(t, 0, p.Top)
}

func TestPlan_BottomRightPadding(t *testing.T) {
	p, err := Plan(999, 799, 1000, 800, 120, 0, 0)
	require.NoError(t, err)
	assert.Positive(t, p.PadRight)
	assert.Positive(t, p.PadBottom)
	assert.Zero(t, p.PadLeft)
	assert.Zero(t, p.PadTop)
	assert.Equal(t, 1000, p.Right)
	assert.Equal(t, 800, p.Bottom)
}

func TestPlan_OffsetIncreasesPadding(t *testing.T) {
	base, err := Plan(10, 10, 1000, 800, 120, 0, 0)
	require.NoError(t, err)
	shifted, err := Plan(10, 10, 1000, 800, 120, -20, -20)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, shifted.PadLeft, base.PadLeft)
	assert.GreaterOrEqual(t, shifted.PadTop, base.PadTop)
}

func TestPlan_SinglePixelBounds(t *testing.T) {
	p, err := Plan(0, 0, 1, 1, 120, 0, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.CropW(), 1)
	assert.GreaterOrEqual(t, p.CropH(), 1)
	assert.Equal(t, 120, p.Width())
	assert.Equal(t, 120, p.Height())
}

func TestPlan_WindowOutsideBounds(t *testing.T) {
	for _, c := range [][2]int{{5000, 5000}, {-5000, -5000}, {5000, -5000}} {
		p, err := Plan(c[0], c[1], 100, 80, 120, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, p.CropW(), "click %v", c)
		assert.Equal(t, 1, p.CropH(), "click %v", c)
		assert.GreaterOrEqual(t, p.Left, 0)
		assert.LessOrEqual(t, p.Right, 100)
		assert.LessOrEqual(t, p.Bottom, 80)
		assert.Equal(t, 120, p.Width())
		assert.Equal(t, 120, p.Height())
		assert.GreaterOrEqual(t, p.PadLeft, 0)
		assert.GreaterOrEqual(t, p.PadTop, 0)
	}
}

func TestPlan_AlwaysExactSize(t *testing.T) {
	bounds := [][2]int{{1, 1}, {3, 200}, {119, 121}, {1000, 800}}
	sizes := []int{1, 2, 120, 121}
	for _, b := range bounds {
		for _, size := range sizes {
			for x := -150; x <= b[0]+150; x += 37 {
				for y := -150; y <= b[1]+150; y += 41 {
					p, err := Plan(x, y, b[0], b[1], size, 3, -2)
					require.NoError(t, err)
					if p.Width() != size || p.Height() != size || p.CropW() < 1 || p.CropH() < 1 {
						t.Fatalf("Plan(%d, %d, %d, %d, %d) = %+v", x, y, b[0], b[1], size, p)
					}
				}
			}
		}
	}
}

func TestPlan_NoPaddingInsideMargin(t *testing.T) {
	const w, h, size = 300, 200, 120
	half := size / 2
	for x := half; x < w-half; x += 7 {
		for y := half; y < h-half; y += 7 {
			p, err := Plan(x, y, w, h, size, 0, 0)
			require.NoError(t, err)
			if p.Padded() {
				t.Fatalf("Plan(%d, %d) padded: %+v", x, y, p)
			}
		}
	}
}

func TestPlan_InvalidArguments(t *testing.T) {
	tests := []struct {
		name           string
		boundW, boundH int
		size           int
		path           string
	}{
		{"zero size", 10, 10, 0, "size"},
		{"negative width", -1, 10, 120, "bound_w"},
		{"zero height", 10, 0, 120, "bound_h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(0, 0, tt.boundW, tt.boundH, tt.size, 0, 0)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
			se, _ := domain.AsSpecError(err)
			assert.Equal(t, tt.path, se.Path)
		})
	}
}
