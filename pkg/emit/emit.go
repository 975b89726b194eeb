// Package emit serializes compiled plans for external executors.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/clickflow/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
	FormatPyAutoGUI Format = "pyautogui"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatJSON, FormatYAML, FormatPyAutoGUI}

// ParseFormat accepts a format name, case-insensitively. "py" and "python" mean pyautogui.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pyautogui", "py", "python":
		return FormatPyAutoGUI, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml or pyautogui)", s)
}

// Write encodes plan to w in the given format.
func Write(w io.Writer, format Format, plan *domain.Plan) error {
	if plan == nil {
		return fmt.Errorf("nothing to emit: plan is nil")
	}
	switch format {
	case FormatJSON:
		return JSON(w, plan)
	case FormatYAML:
		return YAML(w, plan)
	case FormatPyAutoGUI:
		return PyAutoGUI(w, plan)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// JSON writes the plan as indented JSON.
func JSON(w io.Writer, plan *domain.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode plan as json: %w", err)
	}
	return nil
}

// YAML writes the plan as YAML with two-space indentation.
func YAML(w io.Writer, plan *domain.Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode plan as yaml: %w", err)
	}
	return enc.Close()
}
