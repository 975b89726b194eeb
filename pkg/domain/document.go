package domain

// Point is an integer pixel coordinate or displacement.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p displaced by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the displacement from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Rect is a screen rectangle; X/Y is the top-left corner.
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// ScreenSize is a display resolution in pixels.
type ScreenSize struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Document is the typed form of a flow.yaml.
type Document struct {
	Version int          `json:"version" yaml:"version"`
	Meta    Meta         `json:"meta" yaml:"meta"`
	Global  GlobalConfig `json:"global" yaml:"global"`
	Flows   []Flow       `json:"flows" yaml:"flows"`
}

// FlowIDs lists flow ids in document order.
func (d *Document) FlowIDs() []string {
	ids := make([]string, 0, len(d.Flows))
	for _, f := range d.Flows {
		ids = append(ids, f.ID)
	}
	return ids
}

type Meta struct {
	Name                string  `json:"name" yaml:"name"`
	DefaultDelaySeconds float64 `json:"default_delay_s" yaml:"default_delay_s"`
	CreatedUTC          string  `json:"created_utc,omitempty" yaml:"created_utc,omitempty"`
}

// GlobalConfig holds image-search settings shared by all flows.
type GlobalConfig struct {
	Confidence float64         `json:"confidence" yaml:"confidence"`
	Grayscale  bool            `json:"grayscale" yaml:"grayscale"`
	Editor     *EditorSettings `json:"_editor,omitempty" yaml:"_editor,omitempty"`
}

// ExpectedScreen returns the screen size recorded by the editor, or nil when it was not captured.
func (g GlobalConfig) ExpectedScreen() *ScreenSize {
	if g.Editor == nil || g.Editor.CaptureScreenW == nil || g.Editor.CaptureScreenH == nil {
		return nil
	}
	return &ScreenSize{W: *g.Editor.CaptureScreenW, H: *g.Editor.CaptureScreenH}
}

// EditorSettings is the recorder's own metadata block (global._editor).
type EditorSettings struct {
	CaptureScreenW     *int `json:"capture_screen_w,omitempty" yaml:"capture_screen_w,omitempty" mapstructure:"capture_screen_w"`
	CaptureScreenH     *int `json:"capture_screen_h,omitempty" yaml:"capture_screen_h,omitempty" mapstructure:"capture_screen_h"`
	PreviewDX          int  `json:"preview_dx,omitempty" yaml:"preview_dx,omitempty" mapstructure:"preview_dx"`
	PreviewDY          int  `json:"preview_dy,omitempty" yaml:"preview_dy,omitempty" mapstructure:"preview_dy"`
	PreviewDisplaySize int  `json:"preview_display_size,omitempty" yaml:"preview_display_size,omitempty" mapstructure:"preview_display_size"`
}

// Flow is a named, ordered sequence of steps anchored to one reference image.
// A flow without an anchor cannot be resolved or compiled.
type Flow struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Anchor      *Anchor `json:"anchor" yaml:"anchor"`
	Steps       []Step  `json:"steps" yaml:"steps"`
	ShowDesktop bool    `json:"show_desktop" yaml:"show_desktop"`
}

// Anchor is a stored reference image plus the pixel inside it that defines the flow's reference point.
type Anchor struct {
	Image        string `json:"image" yaml:"image"`
	ClickInImage Point  `json:"click_in_image" yaml:"click_in_image"`
	CaptureRect  *Rect  `json:"capture_rect,omitempty" yaml:"capture_rect,omitempty"`
}

// Validate checks the anchor's own invariants. path is the anchor's diagnostic prefix.
func (a *Anchor) Validate(path string) error {
	if a.Image == "" {
		return Invalid(path+".image", "must be a non-empty path", a.Image)
	}
	if a.CaptureRect == nil {
		return nil
	}
	if a.CaptureRect.W <= 0 || a.CaptureRect.H <= 0 {
		return Invalid(path+".capture_rect", "width and height must be > 0", *a.CaptureRect)
	}
	if a.ClickInImage.X < 0 || a.ClickInImage.X >= a.CaptureRect.W {
		return Invalid(path+".click_in_image.x", "must lie inside capture_rect width", a.ClickInImage.X)
	}
	if a.ClickInImage.Y < 0 || a.ClickInImage.Y >= a.CaptureRect.H {
		return Invalid(path+".click_in_image.y", "must lie inside capture_rect height", a.ClickInImage.Y)
	}
	return nil
}
