package ports

import (
	"context"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
)

// LocateOptions carries the image search parameters recorded in the plan.
type LocateOptions struct {
	// Confidence is nil when the search should run without a threshold.
	Confidence *float64
	Grayscale  bool
}

// Locator searches the screen for an anchor image.
type Locator interface {
	// Locate returns the bounding box of the image on screen. found is false when the image is not
	// currently visible; err is reserved for failures of the search itself.
	Locate(ctx context.Context, image string, opts LocateOptions) (box domain.Rect, found bool, err error)
}

// Driver injects input events.
type Driver interface {
	Click(ctx context.Context, at domain.Point, button domain.Button, clicks int, interval time.Duration) error
	Type(ctx context.Context, text string, interval time.Duration) error
	Hotkey(ctx context.Context, keys ...string) error
}

// Display reports properties of the screen the plan runs on.
type Display interface {
	Size(ctx context.Context) (domain.ScreenSize, error)
}
