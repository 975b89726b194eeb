package dsl

import (
	"fmt"

	"github.com/aretw0/clickflow/internal/compiler"
	"github.com/aretw0/clickflow/pkg/adapters/memory"
	"github.com/aretw0/clickflow/pkg/domain"
)

// Builder manages the document construction.
type Builder struct {
	name       string
	delay      *float64
	confidence *float64
	grayscale  *bool
	screen     *domain.ScreenSize
	flows      []*FlowBuilder
	byID       map[string]*FlowBuilder
}

// New creates a new document builder.
func New(name string) *Builder {
	return &Builder{name: name, byID: make(map[string]*FlowBuilder)}
}

// DefaultDelay sets meta.default_delay_s.
func (b *Builder) DefaultDelay(seconds float64) *Builder {
	b.delay = &seconds
	return b
}

// Confidence sets global.confidence.
func (b *Builder) Confidence(c float64) *Builder {
	b.confidence = &c
	return b
}

// Grayscale sets global.grayscale.
func (b *Builder) Grayscale(g bool) *Builder {
	b.grayscale = &g
	return b
}

// Screen records the resolution the flows were captured at.
func (b *Builder) Screen(w, h int) *Builder {
	b.screen = &domain.ScreenSize{W: w, H: h}
	return b
}

// Flow adds a flow to the document.
// If the flow already exists, it returns the existing builder.
func (b *Builder) Flow(id string) *FlowBuilder {
	if fb, ok := b.byID[id]; ok {
		return fb
	}
	fb := &FlowBuilder{raw: map[string]any{"id": id}}
	b.flows = append(b.flows, fb)
	b.byID[id] = fb
	return fb
}

// Raw returns the document as the mapping flow.yaml would decode to.
func (b *Builder) Raw() map[string]any {
	doc := map[string]any{"version": domain.SupportedVersion}

	meta := map[string]any{"name": b.name}
	if b.delay != nil {
		meta["default_delay_s"] = *b.delay
	}
	doc["meta"] = meta

	global := map[string]any{}
	if b.confidence != nil {
		global["confidence"] = *b.confidence
	}
	if b.grayscale != nil {
		global["grayscale"] = *b.grayscale
	}
	if b.screen != nil {
		global["_editor"] = map[string]any{
			"capture_screen_w": b.screen.W,
			"capture_screen_h": b.screen.H,
		}
	}
	if len(global) > 0 {
		doc["global"] = global
	}

	flows := make([]any, 0, len(b.flows))
	for _, fb := range b.flows {
		flows = append(flows, fb.build())
	}
	doc["flows"] = flows
	return doc
}

// Document parses and validates the built document.
func (b *Builder) Document() (*domain.Document, error) {
	return compiler.Parse(b.Raw())
}

// Build validates the document and wraps it in an in-memory project source.
// Every anchor image referenced by a flow is registered as present.
func (b *Builder) Build() (*memory.Source, error) {
	doc, err := b.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	var anchors []string
	for _, f := range doc.Flows {
		if f.Anchor != nil {
			anchors = append(anchors, f.Anchor.Image)
		}
	}
	return memory.NewSource(b.Raw(), anchors...), nil
}
