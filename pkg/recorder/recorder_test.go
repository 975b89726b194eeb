package recorder_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, r *recorder.Recorder, events ...recorder.Event) *recorder.Recording {
	t.Helper()
	q := recorder.NewQueue(len(events) + 1)
	for _, e := range events {
		require.True(t, q.Push(e))
	}
	q.Close()
	rec, err := r.Run(context.Background(), q.Events())
	require.NoError(t, err)
	return rec
}

func TestRecorder_ClickSteps(t *testing.T) {
	r, err := recorder.New(domain.Point{X: 105, Y: 207}, domain.ScreenSize{W: 1000, H: 800},
		recorder.WithFlowID("login"), recorder.WithDelay(1.5))
	require.NoError(t, err)

	rec := run(t, r,
		recorder.Click(108, 205, domain.ButtonLeft, true),
		recorder.Click(108, 205, domain.ButtonLeft, false),
		recorder.Click(0, 0, domain.ButtonRight, true),
	)

	assert.Equal(t, recorder.StoppedByClose, rec.Stopped)
	require.Len(t, rec.Captured, 2, "releases are ignored")

	first := rec.Captured[0]
	assert.Equal(t, domain.StepClick, first.Step.Action)
	assert.Equal(t, domain.Point{X: 3, Y: -2}, first.Step.Click.Offset)
	assert.Equal(t, 1, first.Step.Click.Clicks)
	assert.Equal(t, 1.5, *first.Step.DelaySeconds)
	assert.Equal(t, "previews/login_step0001.png", first.Step.Preview)
	assert.NoError(t, first.Step.Validate("step"))
	assert.Equal(t, 120, first.Preview.Size)

	second := rec.Captured[1]
	assert.Equal(t, domain.ButtonRight, second.Step.Click.Button)
	assert.Equal(t, domain.Point{X: -105, Y: -207}, second.Step.Click.Offset)
	assert.Equal(t, "previews/login_step0002.png", second.Step.Preview)
	assert.Positive(t, second.Preview.PadLeft)

	assert.Len(t, rec.Steps(), 2)
}

func TestRecorder_PauseAndStop(t *testing.T) {
	r, err := recorder.New(domain.Point{}, domain.ScreenSize{W: 100, H: 100})
	require.NoError(t, err)

	rec := run(t, r,
		recorder.Click(1, 1, domain.ButtonLeft, true),
		recorder.Key(recorder.PauseKey),
		recorder.Click(2, 2, domain.ButtonLeft, true),
		recorder.Key(recorder.PauseKey),
		recorder.Click(3, 3, domain.ButtonLeft, true),
		recorder.Key(recorder.StopKey),
		recorder.Click(4, 4, domain.ButtonLeft, true),
	)

	assert.Equal(t, recorder.StoppedByKey, rec.Stopped)
	assert.Equal(t, 1, rec.Ignored)
	require.Len(t, rec.Captured, 2)
	assert.Equal(t, domain.Point{X: 1, Y: 1}, rec.Captured[0].At)
	assert.Equal(t, domain.Point{X: 3, Y: 3}, rec.Captured[1].At)
	assert.Empty(t, rec.Captured[0].Step.Preview, "no flow id, no preview path")
}

func TestRecorder_Exclude(t *testing.T) {
	r, err := recorder.New(domain.Point{}, domain.ScreenSize{W: 100, H: 100},
		recorder.WithExclude(func(p domain.Point) bool { return p.X > 50 }),
		recorder.WithStartIndex(4),
		recorder.WithFlowID("f"),
	)
	require.NoError(t, err)

	rec := run(t, r,
		recorder.Click(60, 1, domain.ButtonLeft, true),
		recorder.Click(10, 1, domain.ButtonLeft, true),
	)
	require.Len(t, rec.Captured, 1)
	assert.Equal(t, "previews/f_step0004.png", rec.Captured[0].Step.Preview)
}

func TestRecorder_PreviewCalibration(t *testing.T) {
	r, err := recorder.New(domain.Point{}, domain.ScreenSize{W: 1000, H: 800}, recorder.WithPreview(60, 5, -5))
	require.NoError(t, err)

	rec := run(t, r, recorder.Click(500, 400, domain.ButtonLeft, true))
	require.Len(t, rec.Captured, 1)
	p := rec.Captured[0].Preview
	assert.Equal(t, 60, p.Size)
	assert.Equal(t, 505-30, p.Left)
	assert.Equal(t, 395-30, p.Top)
}

func TestRecorder_ContextCancel(t *testing.T) {
	r, err := recorder.New(domain.Point{}, domain.ScreenSize{W: 10, H: 10})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rec, err := r.Run(ctx, make(chan recorder.Event))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, recorder.StoppedByContext, rec.Stopped)
}

func TestNew_Invalid(t *testing.T) {
	_, err := recorder.New(domain.Point{}, domain.ScreenSize{W: 0, H: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = recorder.New(domain.Point{}, domain.ScreenSize{W: 10, H: 10}, recorder.WithPreview(0, 0, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = recorder.New(domain.Point{}, domain.ScreenSize{W: 10, H: 10}, recorder.WithDelay(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = recorder.New(domain.Point{}, domain.ScreenSize{W: 10, H: 10}, recorder.WithDelay(math.NaN()))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := recorder.NewQueue(2)
	assert.True(t, q.Push(recorder.Key("a")))
	assert.True(t, q.Push(recorder.Key("b")))
	assert.False(t, q.Push(recorder.Key("c")))
	assert.Equal(t, int64(1), q.Dropped())

	q.Close()
	q.Close()
	assert.False(t, q.Push(recorder.Key("d")), "closed queue rejects events")
	assert.Equal(t, int64(1), q.Dropped(), "closed rejections are not drops")

	var got []string
	for e := range q.Events() {
		got = append(got, e.Key)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := recorder.NewQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(recorder.Click(j, j, domain.ButtonLeft, true))
			}
		}()
	}
	wg.Wait()
	q.Close()

	n := 0
	for range q.Events() {
		n++
	}
	assert.Equal(t, int64(800), int64(n)+q.Dropped())
}

func TestRecorder_UnknownButtonRecordedAsLeft(t *testing.T) {
	r, err := recorder.New(domain.Point{X: 10, Y: 10}, domain.ScreenSize{W: 100, H: 100})
	require.NoError(t, err)

	rec := run(t, r,
		recorder.Click(20, 30, domain.Button("x1"), true),
		recorder.Click(40, 50, "", true),
	)

	require.Len(t, rec.Captured, 2)
	for _, c := range rec.Captured {
		assert.Equal(t, domain.ButtonLeft, c.Step.Click.Button)
		assert.NoError(t, c.Step.Validate("step"))
	}
	assert.Equal(t, domain.Point{X: 10, Y: 20}, rec.Captured[0].Step.Click.Offset)
	assert.Zero(t, rec.Ignored)
}

func TestAnchorFromClick(t *testing.T) {
	rect := domain.Rect{X: 100, Y: 200, W: 50, H: 40}

	tests := []struct {
		name  string
		rect  domain.Rect
		click domain.Point
		want  domain.Point
	}{
		{"inside", rect, domain.Point{X: 105, Y: 207}, domain.Point{X: 5, Y: 7}},
		{"top left corner", rect, domain.Point{X: 100, Y: 200}, domain.Point{X: 0, Y: 0}},
		{"left of and above", rect, domain.Point{X: 90, Y: 150}, domain.Point{X: 0, Y: 0}},
		{"right of and below", rect, domain.Point{X: 400, Y: 900}, domain.Point{X: 49, Y: 39}},
		{"on the far edge", rect, domain.Point{X: 150, Y: 240}, domain.Point{X: 49, Y: 39}},
		{"single pixel", domain.Rect{X: 7, Y: 7, W: 1, H: 1}, domain.Point{X: 0, Y: 30}, domain.Point{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := recorder.AnchorFromClick(tt.rect, "anchors/login.png", tt.click)
			assert.Equal(t, "anchors/login.png", a.Image)
			assert.Equal(t, tt.want, a.ClickInImage)
			require.NotNil(t, a.CaptureRect)
			assert.Equal(t, tt.rect, *a.CaptureRect)
			assert.NoError(t, a.Validate("anchor"))
		})
	}
}

func TestAnchorFromClick_DoesNotAliasRect(t *testing.T) {
	rect := domain.Rect{X: 1, Y: 2, W: 3, H: 4}
	a := recorder.AnchorFromClick(rect, "a.png", domain.Point{X: 2, Y: 3})
	rect.W = 99
	assert.Equal(t, 3, a.CaptureRect.W)
}

func TestAnchorPoint(t *testing.T) {
	a := recorder.AnchorFromClick(domain.Rect{X: 100, Y: 200, W: 50, H: 40}, "a.png", domain.Point{X: 500, Y: 210})
	p, ok := recorder.AnchorPoint(a)
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 149, Y: 210}, p, "clamped reference point")

	_, ok = recorder.AnchorPoint(domain.Anchor{Image: "a.png"})
	assert.False(t, ok)
}
