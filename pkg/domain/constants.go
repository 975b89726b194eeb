package domain

// SupportedVersion is the only document version this module understands.
const SupportedVersion = 0

// Defaults applied to genuinely optional fields.
const (
	DefaultDelaySeconds         = 2.0
	DefaultConfidence           = 0.9
	DefaultGrayscale            = true
	DefaultTypeIntervalSeconds  = 0.02
	DefaultClickIntervalSeconds = 0.05
	DefaultPreviewSize          = 120
	DefaultPreviewDisplaySize   = 180

	RevealDesktopDelaySeconds = 0.5
)

// RevealDesktopKeys is the hotkey chord emitted for flows with show_desktop.
var RevealDesktopKeys = []string{"win", "d"}
