// Package graph renders compiled plans as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickflow/pkg/domain"
)

// Overlay contains execution progress to visualize on the graph.
type Overlay struct {
	// Executed counts the actions already run per flow id, preamble included.
	Executed map[string]int
	// Failed is the id of the flow that stopped the run, if any.
	Failed string
}

// GenerateMermaid produces a Mermaid flowchart of plan, one subgraph per flow.
// It applies semantic styling:
// - Anchor lookup: ((Circle))
// - Hotkeys and the desktop preamble: [[Subroutine]]
// - Typing: [/Parallelogram/]
// - Wait: {{Hexagon}}
// - Click: [Rectangle]
// It also applies overlay styles (done/failed) if provided.
func GenerateMermaid(plan *domain.Plan, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if plan == nil {
		return sb.String()
	}

	var edges []string
	var done, failed []string
	prevLast := ""

	for i, flow := range plan.Flows {
		prefix := fmt.Sprintf("f%d_%s", i, sanitizeMermaidID(flow.FlowID))
		title := flow.FlowID
		if flow.Title != "" && flow.Title != flow.FlowID {
			title = flow.FlowID + ": " + flow.Title
		}
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", prefix, escape(title))

		pre, body := flow.Preamble()
		var order []string
		for j, a := range pre {
			id := fmt.Sprintf("%s_a%d", prefix, j)
			writeNode(&sb, id, a)
			order = append(order, id)
		}

		anchorID := prefix + "_anchor"
		fmt.Fprintf(&sb, "        %s((\"%s @ %d,%d\"))\n", anchorID,
			escape(flow.Anchor.Image), flow.Anchor.ClickInImage.X, flow.Anchor.ClickInImage.Y)
		order = append(order, anchorID)

		for j, a := range body {
			id := fmt.Sprintf("%s_a%d", prefix, len(pre)+j)
			writeNode(&sb, id, a)
			order = append(order, id)
		}
		sb.WriteString("    end\n")

		if prevLast != "" {
			edges = append(edges, fmt.Sprintf("    %s -.-> %s", prevLast, order[0]))
		}
		for k := 1; k < len(order); k++ {
			edges = append(edges, fmt.Sprintf("    %s --> %s", order[k-1], order[k]))
		}
		prevLast = order[len(order)-1]

		if overlay != nil {
			n := overlay.Executed[flow.FlowID]
			// order has one extra node (the anchor) after the preamble.
			for k, id := range order {
				actionIdx := k
				if k > len(pre) {
					actionIdx = k - 1
				}
				isAnchor := k == len(pre)
				if (isAnchor && n > len(pre)) || (!isAnchor && actionIdx < n) {
					done = append(done, id)
				}
			}
			if overlay.Failed == flow.FlowID {
				failed = append(failed, prefix)
			}
		}
	}

	for _, e := range edges {
		sb.WriteString(e + "\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef done fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		for _, id := range done {
			fmt.Fprintf(&sb, "    class %s done;\n", id)
		}
		for _, id := range failed {
			fmt.Fprintf(&sb, "    class %s failed;\n", id)
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, id string, a domain.Action) {
	opener, closer := "[", "]"
	var label string

	switch a.Kind {
	case domain.ActionRevealDesktop:
		opener, closer = "[[", "]]"
		label = "reveal desktop " + strings.Join(a.Keys, "+")
	case domain.ActionHotkey:
		opener, closer = "[[", "]]"
		label = strings.Join(a.Keys, "+")
	case domain.ActionType:
		opener, closer = "[/", "/]"
		label = fmt.Sprintf("type '%s'", a.Text)
	case domain.ActionWait:
		opener, closer = "{{", "}}"
		label = fmt.Sprintf("wait %gs", a.Seconds)
	case domain.ActionClick:
		label = fmt.Sprintf("click %s", a.Button)
		if a.Clicks == 2 {
			label = fmt.Sprintf("double click %s", a.Button)
		}
		if a.Offset != nil {
			label += fmt.Sprintf(" %+d,%+d", a.Offset.X, a.Offset.Y)
		}
	default:
		label = string(a.Kind)
	}
	if a.PostDelaySeconds > 0 {
		label += fmt.Sprintf(" <br/> ⏱️ %gs", a.PostDelaySeconds)
	}
	fmt.Fprintf(sb, "        %s%s\"%s\"%s\n", id, opener, escape(label), closer)
}

// escape replaces double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
