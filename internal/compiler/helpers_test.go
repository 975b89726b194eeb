package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const loginDoc = `
version: 0
meta:
  name: demo
  default_delay_s: 1
global:
  confidence: 0.8
  grayscale: false
  _editor:
    capture_screen_w: 1920
    capture_screen_h: 1080
    preview_dx: 2
    preview_dy: -1
flows:
  - id: login
    title: Log in
    show_desktop: true
    anchor:
      image: anchors/login.png
      click_in_image: {x: 5, y: 7}
      capture_rect: {x: 100, y: 200, w: 50, h: 50}
    steps:
      - action: click
        offset: {x: 3, y: -2}
        button: left
        clicks: 2
        delay_s: 0.5
        preview: previews/login_step0001.png
        _editor:
          click_xy: {x: 108, y: 205}
      - action: type
        text: hunter2
      - action: hotkey
        keys: [ctrl, enter]
      - action: wait
        seconds: 3
  - id: empty
    anchor: null
    steps: []
`

func decodeYAML(t *testing.T, src string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	return raw
}
