package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/internal/presentation/graph"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/aretw0/clickflow/pkg/runner"
)

// TraceParams are the inputs of trace.
type TraceParams struct {
	FlowIDs []string
	// Box is where every anchor is pretended to be found.
	Box domain.Rect
	// Screen overrides the display size; by default the plan's recorded size is reported.
	Screen        *domain.ScreenSize
	UseConfidence bool
	// Graph replaces the trace lines with a Mermaid chart highlighting the executed actions.
	Graph bool
}

// Trace runs the plan against a fixed anchor position and prints every input instead of sending it.
func Trace(ctx context.Context, g *Globals, p TraceParams) error {
	project, err := g.open(ctx)
	if err != nil {
		return err
	}
	plan, err := project.Compile(ctx, p.FlowIDs, clickflow.CompileOptions{UseConfidence: p.UseConfidence})
	if err != nil {
		return err
	}

	var display ports.Display
	switch {
	case p.Screen != nil:
		display = runner.FixedDisplay{Screen: *p.Screen}
	case plan.ExpectedScreen != nil:
		display = runner.FixedDisplay{Screen: *plan.ExpectedScreen}
	}

	out := g.Stdout
	if p.Graph {
		out = io.Discard
	}
	executed := map[string]int{}
	r := runner.New(
		runner.FixedLocator{Box: p.Box},
		runner.NewTraceDriver(out),
		display,
		runner.WithLogger(g.logger()),
		runner.WithSleeper(runner.NoSleep),
		runner.WithObserver(func(flowID string, _ runner.Executed) {
			executed[flowID]++
		}),
	)

	runErr := r.Run(ctx, plan)
	if p.Graph {
		overlay := &graph.Overlay{Executed: executed}
		var mismatch *runner.ScreenMismatchError
		if runErr != nil && !errors.As(runErr, &mismatch) {
			overlay.Failed = failedFlow(plan, executed)
		}
		fmt.Fprint(g.Stdout, graph.GenerateMermaid(plan, overlay))
	}
	return runErr
}

// failedFlow is the first flow that did not run all of its actions.
func failedFlow(plan *domain.Plan, executed map[string]int) string {
	for _, f := range plan.Flows {
		if executed[f.FlowID] < len(f.Actions) {
			return f.FlowID
		}
	}
	return ""
}

// Graph prints the composed plan as a Mermaid flowchart.
func Graph(ctx context.Context, g *Globals, flowIDs []string) error {
	project, err := g.open(ctx)
	if err != nil {
		return err
	}
	plan, err := project.Compile(ctx, flowIDs, clickflow.CompileOptions{UseConfidence: true})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.Stdout, graph.GenerateMermaid(plan, nil))
	return err
}
