package clickflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/clickflow/internal/compiler"
	"github.com/aretw0/clickflow/pkg/adapters/file"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/emit"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/aretw0/clickflow/pkg/runner"
)

// Project is the high-level entry point for the clickflow library.
// It holds one parsed document and the source it was read from.
type Project struct {
	source   ports.ProjectSource
	doc      *domain.Document
	parseOps []compiler.ParseOption
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Project.
type Option func(*Project)

// WithSource injects a custom ProjectSource, bypassing the default directory source.
func WithSource(s ports.ProjectSource) Option {
	return func(p *Project) {
		p.source = s
	}
}

// WithLogger sets a custom structured logger for the project.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		p.logger = logger
	}
}

// WithDuplicateFlowIDs accepts documents that repeat a flow id; lookups pick the first match.
func WithDuplicateFlowIDs() Option {
	return func(p *Project) {
		p.parseOps = append(p.parseOps, compiler.WithDuplicateFlowIDs())
	}
}

// CompileOptions controls Compile.
type CompileOptions struct {
	// UseConfidence keeps global.confidence in the plan. Without it, anchor search runs without a
	// confidence threshold.
	UseConfidence bool
}

// Open reads and validates the project document.
// By default it reads flow.yaml, flow.yml or flow.json from dir.
// If WithSource option is provided, dir is only used as a descriptive name.
func Open(ctx context.Context, dir string, opts ...Option) (*Project, error) {
	p := &Project{}
	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom source is provided")
		}
		p.source = file.NewSource(dir)
	}
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			p.Name = filepath.Base(abs)
		}
	}

	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.Name != "" {
		p.logger = p.logger.With("project", p.Name)
	}

	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload reads the document again from the source. The previous document is kept on error.
func (p *Project) Reload(ctx context.Context) error {
	raw, err := p.source.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document from %s: %w", p.source.Location(), err)
	}
	doc, err := compiler.Parse(raw, p.parseOps...)
	if err != nil {
		return err
	}
	p.doc = doc
	p.logger.Debug("document loaded", "flows", len(doc.Flows), "source", p.source.Location())
	return nil
}

// Document returns the parsed document. Callers must not modify it.
func (p *Project) Document() *domain.Document {
	return p.doc
}

// Source returns the underlying ProjectSource.
func (p *Project) Source() ports.ProjectSource {
	return p.source
}

// Flow looks up a flow by id.
func (p *Project) Flow(id string) (*domain.Flow, error) {
	return compiler.Find(p.doc, id)
}

// DryRun returns the parsed flow without compiling it. It goes through the same parser as Compile,
// so anything DryRun accepts differs from a compilable flow only in anchor presence.
func (p *Project) DryRun(id string) (*domain.Flow, error) {
	flow, err := p.Flow(id)
	if err != nil {
		return nil, err
	}
	clone := *flow
	clone.Steps = append([]domain.Step(nil), flow.Steps...)
	return &clone, nil
}

// Compile checks that every selected anchor image exists, then composes the flows into a plan.
func (p *Project) Compile(ctx context.Context, flowIDs []string, opts CompileOptions) (*domain.Plan, error) {
	for _, id := range flowIDs {
		flow, err := p.Flow(id)
		if err != nil {
			return nil, err
		}
		if flow.Anchor == nil {
			// Compose reports the missing anchor with its path.
			break
		}
		if err := p.checkAnchor(ctx, flow); err != nil {
			return nil, err
		}
	}

	var composeOpts []compiler.ComposeOption
	if !opts.UseConfidence {
		composeOpts = append(composeOpts, compiler.WithoutConfidence())
	}
	plan, err := compiler.Compose(p.doc, flowIDs, composeOpts...)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("plan compiled", "flows", plan.FlowIDs(), "actions", plan.ActionCount())
	return plan, nil
}

// Run compiles the flows and executes the plan with r.
func (p *Project) Run(ctx context.Context, r *runner.Runner, flowIDs []string, opts CompileOptions) error {
	plan, err := p.Compile(ctx, flowIDs, opts)
	if err != nil {
		return err
	}
	return r.Run(ctx, plan)
}

// Emit writes plan in the given format.
func (p *Project) Emit(w io.Writer, format emit.Format, plan *domain.Plan) error {
	return emit.Write(w, format, plan)
}

func (p *Project) checkAnchor(ctx context.Context, flow *domain.Flow) error {
	err := p.source.StatAnchor(ctx, flow.Anchor.Image)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &domain.SpecError{
			Kind:   domain.KindAnchorImageNotFound,
			Path:   domain.FlowPath(flow.ID) + ".anchor.image",
			Reason: "anchor image does not exist",
			Value:  flow.Anchor.Image,
		}
	}
	return fmt.Errorf("failed to check anchor image for flow %s: %w", flow.ID, err)
}
