package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/aretw0/clickflow/pkg/domain"
)

var scriptTmpl = template.Must(template.New("pyautogui").Parse(`#!/usr/bin/env python3
# -*- coding: utf-8 -*-
"""pyautogui script generated by clickflow.

Flows: {{ .FlowList }}
The confidence setting requires OpenCV (opencv-python).
"""

import argparse
import os
import time

import pyautogui

CONFIDENCE = {{ .Confidence }}
GRAYSCALE = {{ .Grayscale }}
EXPECTED_SCREEN = {{ .ExpectedScreen }}
LOCATE_TIMEOUT_S = {{ .LocateTimeout }}
LOCATE_INTERVAL_S = {{ .LocateInterval }}


def locate_anchor(anchor_path):
    """Poll the screen for the anchor image and return its bbox."""
    kwargs = {'grayscale': GRAYSCALE}
    if CONFIDENCE is not None:
        kwargs['confidence'] = CONFIDENCE
    t0 = time.time()
    while time.time() - t0 < LOCATE_TIMEOUT_S:
        try:
            box = pyautogui.locateOnScreen(anchor_path, **kwargs)
        except pyautogui.ImageNotFoundException:
            box = None
        if box is not None:
            return box
        time.sleep(LOCATE_INTERVAL_S)
    raise RuntimeError(f"anchor not found within {LOCATE_TIMEOUT_S}s: {anchor_path}")


def check_screen():
    if EXPECTED_SCREEN is None:
        return
    cur = pyautogui.size()
    current = (int(cur.width), int(cur.height))
    if current != EXPECTED_SCREEN:
        raise RuntimeError(f"Screen size mismatch: recorded={EXPECTED_SCREEN} current={current}")
{{ range .Flows }}

def {{ .Func }}(project_dir):
    """{{ .Doc }}"""
{{- range .Preamble }}
    {{ . }}
{{- end }}
    anchor_path = os.path.join(project_dir, {{ .Image }})
    box = locate_anchor(anchor_path)
    anchor_x = int(box.left) + {{ .ClickX }}
    anchor_y = int(box.top) + {{ .ClickY }}
    print(f"{{ .ID }}: anchor_click_xy=({anchor_x},{anchor_y})")
{{- range .Body }}
    {{ . }}
{{- end }}
{{ end }}

def main():
    ap = argparse.ArgumentParser()
    ap.add_argument('--project', default=os.path.dirname(os.path.abspath(__file__)),
                    help='project directory containing the anchors')
    args = ap.parse_args()
    check_screen()
{{- range .Flows }}
    {{ .Func }}(args.project)
{{- end }}
    return 0


if __name__ == '__main__':
    raise SystemExit(main())
`))

type scriptView struct {
	FlowList       string
	Confidence     string
	Grayscale      string
	ExpectedScreen string
	LocateTimeout  string
	LocateInterval string
	Flows          []flowView
}

type flowView struct {
	Func     string
	ID       string
	Doc      string
	Image    string
	ClickX   int
	ClickY   int
	Preamble []string
	Body     []string
}

// ScriptOptions tunes the generated locate loop.
type ScriptOptions struct {
	LocateTimeoutSeconds  float64
	LocateIntervalSeconds float64
}

// DefaultScriptOptions match the runner defaults.
var DefaultScriptOptions = ScriptOptions{LocateTimeoutSeconds: 15, LocateIntervalSeconds: 0.5}

// PyAutoGUI writes a standalone Python script that executes plan with pyautogui.
func PyAutoGUI(w io.Writer, plan *domain.Plan) error {
	return PyAutoGUIWithOptions(w, plan, DefaultScriptOptions)
}

// PyAutoGUIWithOptions is PyAutoGUI with explicit locate timing.
func PyAutoGUIWithOptions(w io.Writer, plan *domain.Plan, opts ScriptOptions) error {
	view := scriptView{
		FlowList:       strings.Join(plan.FlowIDs(), ", "),
		Confidence:     "None",
		Grayscale:      pyBool(plan.Grayscale),
		ExpectedScreen: "None",
		LocateTimeout:  pyFloat(opts.LocateTimeoutSeconds),
		LocateInterval: pyFloat(opts.LocateIntervalSeconds),
	}
	if plan.Confidence != nil {
		view.Confidence = pyFloat(*plan.Confidence)
	}
	if s := plan.ExpectedScreen; s != nil {
		view.ExpectedScreen = fmt.Sprintf("(%d, %d)", s.W, s.H)
	}

	for i, f := range plan.Flows {
		pre, body := f.Preamble()
		fv := flowView{
			Func:   fmt.Sprintf("flow_%d", i+1),
			ID:     pyFStringSafe(f.FlowID),
			Doc:    docString(f),
			Image:  pyString(f.Anchor.Image),
			ClickX: f.Anchor.ClickInImage.X,
			ClickY: f.Anchor.ClickInImage.Y,
		}
		for j, a := range pre {
			lines, err := pyAction(j+1, a)
			if err != nil {
				return fmt.Errorf("flow %s: %w", f.FlowID, err)
			}
			fv.Preamble = append(fv.Preamble, lines...)
		}
		for j, a := range body {
			lines, err := pyAction(len(pre)+j+1, a)
			if err != nil {
				return fmt.Errorf("flow %s: %w", f.FlowID, err)
			}
			fv.Body = append(fv.Body, lines...)
		}
		view.Flows = append(view.Flows, fv)
	}

	if err := scriptTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render pyautogui script: %w", err)
	}
	return nil
}

func pyAction(n int, a domain.Action) ([]string, error) {
	lines := []string{fmt.Sprintf("# action%04d: %s", n, a.Kind)}
	switch a.Kind {
	case domain.ActionRevealDesktop:
		lines = append(lines, fmt.Sprintf("pyautogui.hotkey(%s)", pyArgs(a.Keys)))
	case domain.ActionClick:
		if a.Offset == nil {
			return nil, fmt.Errorf("action %d: click without offset", n)
		}
		x, y := fmt.Sprintf("%d", a.Offset.X), fmt.Sprintf("%d", a.Offset.Y)
		if a.Relative {
			x, y = fmt.Sprintf("anchor_x + (%d)", a.Offset.X), fmt.Sprintf("anchor_y + (%d)", a.Offset.Y)
		}
		lines = append(lines, fmt.Sprintf("pyautogui.click(x=%s, y=%s, clicks=%d, interval=%s, button=%s)",
			x, y, a.Clicks, pyFloat(a.ClickIntervalSeconds), pyString(string(a.Button))))
	case domain.ActionType:
		lines = append(lines, fmt.Sprintf("pyautogui.write(%s, interval=%s)", pyString(a.Text), pyFloat(a.IntervalSeconds)))
	case domain.ActionHotkey:
		lines = append(lines, fmt.Sprintf("pyautogui.hotkey(%s)", pyArgs(a.Keys)))
	case domain.ActionWait:
		lines = append(lines, fmt.Sprintf("time.sleep(%s)", pyFloat(a.Seconds)))
	default:
		return nil, fmt.Errorf("action %d: unsupported kind %q", n, a.Kind)
	}
	if a.PostDelaySeconds > 0 {
		lines = append(lines, fmt.Sprintf("time.sleep(%s)", pyFloat(a.PostDelaySeconds)))
	}
	return lines, nil
}

// pyString quotes s as a Python 3 string literal. Go's escapes (\n, \t, \x, \u, \U) are all
// valid in Python.
func pyString(s string) string {
	return strconv.Quote(s)
}

func pyArgs(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = pyString(s)
	}
	return strings.Join(quoted, ", ")
}

func pyFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// docString renders the flow id and title for a triple-quoted docstring.
func docString(f domain.CompiledFlow) string {
	s := f.FlowID
	if f.Title != "" && f.Title != f.FlowID {
		s += ": " + f.Title
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", " ")
}

// pyFStringSafe makes s safe inside a double-quoted Python f-string.
func pyFStringSafe(s string) string {
	q := strconv.Quote(s)
	q = q[1 : len(q)-1]
	q = strings.ReplaceAll(q, "{", "{{")
	return strings.ReplaceAll(q, "}", "}}")
}
