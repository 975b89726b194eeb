// Package file reads clickflow projects from a directory and persists compiled plans as files.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentNames are the file names tried, in order, when looking for the flow document.
var DocumentNames = []string{"flow.yaml", "flow.yml", "flow.json"}

// ErrNoDocument is returned when a project directory contains none of DocumentNames.
var ErrNoDocument = errors.New("no flow document found")

// Source implements ports.ProjectSource over a project directory.
type Source struct {
	Dir string
}

// NewSource creates a Source rooted at dir. An empty dir means the working directory.
func NewSource(dir string) *Source {
	if dir == "" {
		dir = "."
	}
	return &Source{Dir: dir}
}

// Location returns the project directory.
func (s *Source) Location() string {
	return s.Dir
}

// DocumentPath returns the path of the first flow document present in the project directory.
func (s *Source) DocumentPath() (string, error) {
	for _, name := range DocumentNames {
		p := filepath.Join(s.Dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (tried %s)", ErrNoDocument, s.Dir, strings.Join(DocumentNames, ", "))
}

// LoadDocument reads and decodes the flow document.
func (s *Source) LoadDocument(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.DocumentPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow document: %w", err)
	}
	raw, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return raw, nil
}

// Decode parses data as JSON or YAML depending on the extension of name.
// An empty document decodes to an empty mapping.
func Decode(name string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// StatAnchor checks that the anchor image exists under the project directory.
func (s *Source) StatAnchor(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := s.Resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", full, fs.ErrNotExist)
	}
	return nil
}

// Resolve joins a project-relative path onto the project directory. Absolute paths are kept.
func (s *Source) Resolve(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Dir, path)
}
