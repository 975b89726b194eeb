package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickflow/pkg/domain"
)

// FlowMarkdown describes a parsed flow for the dry-run view. Values shown are the parsed ones;
// defaults that only compilation applies (delays, intervals) are shown as "default".
func FlowMarkdown(flow *domain.Flow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", flow.Title)
	fmt.Fprintf(&sb, "- **id**: `%s`\n", flow.ID)
	fmt.Fprintf(&sb, "- **show desktop**: %t\n", flow.ShowDesktop)

	if flow.Anchor == nil {
		sb.WriteString("- **anchor**: _none_ (flow cannot be compiled)\n")
	} else {
		fmt.Fprintf(&sb, "- **anchor**: `%s` at (%d, %d)\n",
			flow.Anchor.Image, flow.Anchor.ClickInImage.X, flow.Anchor.ClickInImage.Y)
		if r := flow.Anchor.CaptureRect; r != nil {
			fmt.Fprintf(&sb, "- **captured at**: %dx%d+%d+%d\n", r.W, r.H, r.X, r.Y)
		}
	}

	if len(flow.Steps) == 0 {
		sb.WriteString("\n_No steps._\n")
		return sb.String()
	}

	sb.WriteString("\n| # | action | details | delay |\n|---|---|---|---|\n")
	for i, s := range flow.Steps {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", i+1, s.Action, cell(stepDetails(s)), delay(s.DelaySeconds))
	}
	return sb.String()
}

func stepDetails(s domain.Step) string {
	switch s.Action {
	case domain.StepClick:
		d := fmt.Sprintf("offset (%d, %d) %s", s.Click.Offset.X, s.Click.Offset.Y, s.Click.Button)
		if s.Click.Clicks == 2 {
			d += " double"
		}
		return d
	case domain.StepType:
		return fmt.Sprintf("%q", s.Type.Text)
	case domain.StepHotkey:
		return strings.Join(s.Hotkey.Keys, "+")
	case domain.StepWait:
		return fmt.Sprintf("%gs", s.Wait.Seconds)
	}
	return ""
}

func delay(d *float64) string {
	if d == nil {
		return "default"
	}
	return fmt.Sprintf("%gs", *d)
}

// cell escapes characters that would break a markdown table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
