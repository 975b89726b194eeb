// Package memory provides in-memory adapters, mainly for tests and embedding.
package memory

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source implements ports.ProjectSource over an in-memory document and a set of anchor paths.
type Source struct {
	mu      sync.RWMutex
	doc     map[string]any
	anchors map[string]bool
}

// NewSource creates a Source serving doc. anchors lists the image paths that exist.
func NewSource(doc map[string]any, anchors ...string) *Source {
	s := &Source{doc: doc, anchors: make(map[string]bool, len(anchors))}
	for _, a := range anchors {
		s.anchors[path.Clean(a)] = true
	}
	return s
}

// NewSourceFromYAML decodes a YAML document.
// This handles decoding automatically, improving DX for tests.
func NewSourceFromYAML(src string, anchors ...string) (*Source, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return NewSource(doc, anchors...), nil
}

// LoadDocument returns the document mapping.
func (s *Source) LoadDocument(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, fmt.Errorf("memory source has no document")
	}
	return s.doc, nil
}

// StatAnchor reports whether the anchor path was registered.
func (s *Source) StatAnchor(ctx context.Context, p string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.anchors[path.Clean(p)] {
		return &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return nil
}

// AddAnchor registers an anchor image path.
func (s *Source) AddAnchor(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[path.Clean(p)] = true
}

// Location implements ports.ProjectSource.
func (s *Source) Location() string {
	return "memory"
}
