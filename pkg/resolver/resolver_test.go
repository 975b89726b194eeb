package resolver

import (
	"testing"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ClickStep(t *testing.T) {
	anchor := &domain.Anchor{Image: "a.png", ClickInImage: domain.Point{X: 5, Y: 7}}

	p, err := ResolveAnchor(anchor, domain.Rect{X: 100, Y: 200, W: 50, H: 50})
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 105, Y: 207}, p)

	assert.Equal(t, domain.Point{X: 108, Y: 205}, ResolveStepPoint(p, domain.Point{X: 3, Y: -2}))
}

func TestResolveAnchor_Missing(t *testing.T) {
	_, err := ResolveAnchor(nil, domain.Rect{W: 1, H: 1})
	assert.ErrorIs(t, err, domain.ErrMissingAnchor)
}

func TestResolve_NoClamping(t *testing.T) {
	p := ResolveStepPoint(domain.Point{X: 2, Y: 2}, domain.Point{X: -10, Y: 100000})
	assert.Equal(t, domain.Point{X: -8, Y: 100002}, p)
}

func TestResolveActions(t *testing.T) {
	offset := domain.Point{X: 3, Y: -2}
	actions := []domain.Action{
		{Kind: domain.ActionRevealDesktop, Keys: []string{"win", "d"}},
		{Kind: domain.ActionClick, Offset: &offset, Relative: true, Button: domain.ButtonLeft, Clicks: 1},
		{Kind: domain.ActionWait, Seconds: 1},
	}

	out := ResolveActions(domain.Point{X: 105, Y: 207}, actions)
	require.Len(t, out, 3)
	assert.Equal(t, actions[0], out[0])
	assert.Equal(t, actions[2], out[2])

	assert.False(t, out[1].Relative)
	assert.Equal(t, domain.Point{X: 108, Y: 205}, *out[1].Offset)

	// input untouched
	assert.True(t, actions[1].Relative)
	assert.Equal(t, domain.Point{X: 3, Y: -2}, offset)

	again := ResolveAction(domain.Point{X: 1000, Y: 1000}, out[1])
	assert.Equal(t, out[1], again, "absolute clicks are not offset twice")
}
