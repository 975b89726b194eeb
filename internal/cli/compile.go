package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/internal/presentation/tui"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/emit"
)

// CompileParams are the inputs of compile and compose.
type CompileParams struct {
	FlowIDs       []string
	Out           string
	Format        emit.Format
	UseConfidence bool
	// DryRun prints the parsed flows instead of compiling them.
	DryRun bool
	// Style is the glamour style for dry runs; empty prints raw markdown.
	Style string
}

// Compile composes the flows and writes the plan. Nothing is written when any flow fails.
func Compile(ctx context.Context, g *Globals, p CompileParams) error {
	if len(p.FlowIDs) == 0 {
		return domain.Invalid("flow_ids", "at least one flow id is required", nil)
	}
	project, err := g.open(ctx)
	if err != nil {
		return err
	}
	if p.DryRun {
		return dryRun(g, project, p)
	}

	format := p.Format
	if format == "" {
		format = emit.FormatJSON
	}

	plan, err := project.Compile(ctx, p.FlowIDs, clickflow.CompileOptions{UseConfidence: p.UseConfidence})
	if err != nil {
		return err
	}
	data, err := render(func(w io.Writer) error {
		return project.Emit(w, format, plan)
	})
	if err != nil {
		return err
	}
	g.logger().Debug("plan compiled", "flows", plan.FlowIDs(), "actions", plan.ActionCount(), "format", format)
	return g.writeOutput(p.Out, data)
}

func dryRun(g *Globals, project *clickflow.Project, p CompileParams) error {
	var sections []string
	for _, id := range p.FlowIDs {
		flow, err := project.DryRun(id)
		if err != nil {
			return err
		}
		sections = append(sections, tui.FlowMarkdown(flow))
	}
	md := strings.Join(sections, "\n---\n\n")

	if p.Style != "" {
		renderMarkdown, err := tui.NewRenderer(p.Style, 0)
		if err != nil {
			return err
		}
		if md, err = renderMarkdown(md); err != nil {
			return fmt.Errorf("failed to render dry run: %w", err)
		}
	}
	return g.writeOutput(p.Out, []byte(md))
}

// ValidateReport summarises a validate run.
type ValidateReport struct {
	Flows     int
	Compiled  []string
	NoAnchors []string
}

// Validate parses the whole document and compiles every flow that has an anchor, which also checks
// that its anchor image exists. Flows without anchors are reported but are not an error.
func Validate(ctx context.Context, g *Globals) (*ValidateReport, error) {
	project, err := g.open(ctx)
	if err != nil {
		return nil, err
	}

	doc := project.Document()
	report := &ValidateReport{Flows: len(doc.Flows)}
	for _, f := range doc.Flows {
		if f.Anchor == nil {
			report.NoAnchors = append(report.NoAnchors, f.ID)
			continue
		}
		if _, err := project.Compile(ctx, []string{f.ID}, clickflow.CompileOptions{UseConfidence: true}); err != nil {
			return report, err
		}
		report.Compiled = append(report.Compiled, f.ID)
	}

	for _, id := range report.NoAnchors {
		fmt.Fprintf(g.Stdout, "warning: flow %s has no anchor and cannot be compiled\n", id)
	}
	fmt.Fprintf(g.Stdout, "Document is valid! ✅ (%d flows, %d compiled)\n", report.Flows, len(report.Compiled))
	return report, nil
}
