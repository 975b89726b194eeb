package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/clickflow/internal/compiler"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuilder_Document(t *testing.T) {
	b := dsl.New("demo").DefaultDelay(1).Confidence(0.8).Grayscale(false).Screen(1920, 1080)

	b.Flow("login").
		Title("Log in").
		ShowDesktop().
		Anchor("anchors/login.png", 5, 7).
		CaptureRect(100, 200, 40, 30).
		Click(3, -2, dsl.Double(), dsl.Button("right"), dsl.Interval(0.1), dsl.Preview("previews/login_step0001.png")).
		Type("alice", dsl.Delay(0.5), dsl.Interval(0.01)).
		Hotkey([]string{"ctrl", "s"}).
		Wait(1.5)

	doc, err := b.Document()
	require.NoError(t, err)

	assert.Equal(t, "demo", doc.Meta.Name)
	assert.Equal(t, 1.0, doc.Meta.DefaultDelaySeconds)
	assert.Equal(t, 0.8, doc.Global.Confidence)
	assert.False(t, doc.Global.Grayscale)
	assert.Equal(t, &domain.ScreenSize{W: 1920, H: 1080}, doc.Global.ExpectedScreen())

	require.Len(t, doc.Flows, 1)
	f := doc.Flows[0]
	assert.Equal(t, "Log in", f.Title)
	assert.True(t, f.ShowDesktop)
	require.NotNil(t, f.Anchor)
	assert.Equal(t, domain.Point{X: 5, Y: 7}, f.Anchor.ClickInImage)
	assert.Equal(t, &domain.Rect{X: 100, Y: 200, W: 40, H: 30}, f.Anchor.CaptureRect)

	require.Len(t, f.Steps, 4)
	click := f.Steps[0]
	assert.Equal(t, domain.Point{X: 3, Y: -2}, click.Click.Offset)
	assert.Equal(t, domain.ButtonRight, click.Click.Button)
	assert.Equal(t, 2, click.Click.Clicks)
	assert.Equal(t, 0.1, *click.Click.IntervalSeconds)
	assert.Equal(t, "previews/login_step0001.png", click.Preview)

	assert.Equal(t, "alice", f.Steps[1].Type.Text)
	assert.Equal(t, 0.5, *f.Steps[1].DelaySeconds)
	assert.Equal(t, []string{"ctrl", "s"}, f.Steps[2].Hotkey.Keys)
	assert.Equal(t, 1.5, f.Steps[3].Wait.Seconds)
}

func TestBuilder_FlowIsReused(t *testing.T) {
	b := dsl.New("demo")
	b.Flow("a").Anchor("a.png", 0, 0).Click(1, 1)
	b.Flow("b").Anchor("b.png", 0, 0)
	b.Flow("a").Wait(1)

	doc, err := b.Document()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.FlowIDs())
	assert.Len(t, doc.Flows[0].Steps, 2)
}

func TestBuilder_Defaults(t *testing.T) {
	b := dsl.New("demo")
	b.Flow("empty")

	doc, err := b.Document()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDelaySeconds, doc.Meta.DefaultDelaySeconds)
	assert.Equal(t, domain.DefaultConfidence, doc.Global.Confidence)
	assert.Nil(t, doc.Flows[0].Anchor)
	assert.Equal(t, "empty", doc.Flows[0].Title)
}

func TestBuilder_Invalid(t *testing.T) {
	b := dsl.New("demo")
	b.Flow("bad").Anchor("a.png", 0, 0).Click(0, 0, func(s map[string]any) { s["clicks"] = 3 })

	_, err := b.Document()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = b.Build()
	require.Error(t, err)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok)
	assert.Equal(t, "flow[bad].step[1].clicks", se.Path)
}

func TestBuilder_BuildSource(t *testing.T) {
	b := dsl.New("demo")
	b.Flow("login").Anchor("anchors/login.png", 5, 7).Click(3, -2)
	b.Flow("draft")

	src, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, src.StatAnchor(ctx, "anchors/login.png"))
	assert.Error(t, src.StatAnchor(ctx, "anchors/other.png"))

	raw, err := src.LoadDocument(ctx)
	require.NoError(t, err)
	doc, err := compiler.Parse(raw)
	require.NoError(t, err)

	plan, err := compiler.Compose(doc, []string{"login"})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.ActionCount())
}

func TestBuilder_RawRoundTripsThroughYAML(t *testing.T) {
	b := dsl.New("demo").DefaultDelay(0.25)
	b.Flow("login").Anchor("anchors/login.png", 5, 7).Hotkey([]string{"win", "r"})

	out, err := yaml.Marshal(b.Raw())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(out, &raw))
	doc, err := compiler.Parse(raw)
	require.NoError(t, err)

	want, err := b.Document()
	require.NoError(t, err)
	assert.Equal(t, want, doc)
}
