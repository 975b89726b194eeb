package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func samplePlan() *domain.Plan {
	conf := 0.9
	off := domain.Point{X: 3, Y: -2}
	return &domain.Plan{
		Confidence:     &conf,
		Grayscale:      true,
		ExpectedScreen: &domain.ScreenSize{W: 1920, H: 1080},
		Flows: []domain.CompiledFlow{
			{
				FlowID: "login",
				Title:  `Log "in"`,
				Anchor: domain.Anchor{Image: "anchors/login.png", ClickInImage: domain.Point{X: 5, Y: 7}},
				Actions: []domain.Action{
					domain.RevealDesktop(),
					{Kind: domain.ActionClick, Offset: &off, Relative: true, Button: domain.ButtonLeft, Clicks: 2, ClickIntervalSeconds: 0.05, PostDelaySeconds: 2},
					{Kind: domain.ActionType, Text: "it's\n", IntervalSeconds: 0.02, PostDelaySeconds: 0},
					{Kind: domain.ActionHotkey, Keys: []string{"ctrl", "s"}, PostDelaySeconds: 1},
					{Kind: domain.ActionWait, Seconds: 3, PostDelaySeconds: 1},
				},
			},
			{
				FlowID:  "logout",
				Anchor:  domain.Anchor{Image: "anchors/out.png"},
				Actions: []domain.Action{{Kind: domain.ActionWait, Seconds: 1}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "py": FormatPyAutoGUI, " pyautogui ": FormatPyAutoGUI} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSON_RoundTrip(t *testing.T) {
	plan := samplePlan()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, plan))

	var back domain.Plan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	if diff := cmp.Diff(plan, &back); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `"post_delay_s": 2`)
	assert.Contains(t, buf.String(), `"relative": true`)
}

func TestYAML_Keys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, samplePlan()))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 0.9, back["confidence"])
	assert.Equal(t, map[string]any{"w": 1920, "h": 1080}, back["expected_screen"])
	assert.Contains(t, buf.String(), "kind: reveal_desktop")
}

func TestWrite_Deterministic(t *testing.T) {
	for _, f := range Formats {
		var a, b bytes.Buffer
		require.NoError(t, Write(&a, f, samplePlan()))
		require.NoError(t, Write(&b, f, samplePlan()))
		assert.Equal(t, a.String(), b.String(), f)
	}
}

func TestWrite_Errors(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, FormatJSON, nil))
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), samplePlan()))
}

func TestPyAutoGUI_Script(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PyAutoGUI(&buf, samplePlan()))
	script := buf.String()

	for _, want := range []string{
		"CONFIDENCE = 0.9",
		"GRAYSCALE = True",
		"EXPECTED_SCREEN = (1920, 1080)",
		"LOCATE_TIMEOUT_S = 15.0",
		"LOCATE_INTERVAL_S = 0.5",
		`    """login: Log \"in\""""`,
		`    pyautogui.hotkey("win", "d")`,
		`    anchor_path = os.path.join(project_dir, "anchors/login.png")`,
		"    anchor_x = int(box.left) + 5",
		"    anchor_y = int(box.top) + 7",
		`    pyautogui.click(x=anchor_x + (3), y=anchor_y + (-2), clicks=2, interval=0.05, button="left")`,
		`    pyautogui.write("it's\n", interval=0.02)`,
		`    pyautogui.hotkey("ctrl", "s")`,
		"    time.sleep(3.0)",
		"    flow_1(args.project)",
		"    flow_2(args.project)",
	} {
		assert.Contains(t, script, want)
	}

	// The desktop is revealed before the anchor is searched.
	reveal := strings.Index(script, `pyautogui.hotkey("win", "d")`)
	locate := strings.Index(script, "box = locate_anchor(anchor_path)")
	assert.Less(t, reveal, locate)

	// A zero post delay emits no sleep right after the type action.
	assert.NotContains(t, script, "interval=0.02)\n    time.sleep(0.0)")
}

func TestPyAutoGUI_NoConfidence(t *testing.T) {
	plan := samplePlan()
	plan.Confidence = nil
	plan.ExpectedScreen = nil
	plan.Grayscale = false

	var buf bytes.Buffer
	require.NoError(t, PyAutoGUI(&buf, plan))
	assert.Contains(t, buf.String(), "CONFIDENCE = None")
	assert.Contains(t, buf.String(), "EXPECTED_SCREEN = None")
	assert.Contains(t, buf.String(), "GRAYSCALE = False")
}

func TestPyAutoGUI_RejectsUnknownKind(t *testing.T) {
	plan := samplePlan()
	plan.Flows[1].Actions = []domain.Action{{Kind: "drag"}}
	assert.Error(t, PyAutoGUI(&bytes.Buffer{}, plan))
}

func TestPyHelpers(t *testing.T) {
	assert.Equal(t, "2.0", pyFloat(2))
	assert.Equal(t, "0.02", pyFloat(0.02))
	assert.Equal(t, `"a\"b"`, pyString(`a"b`))
	assert.Equal(t, "x{{y}}", pyFStringSafe("x{y}"))
}
