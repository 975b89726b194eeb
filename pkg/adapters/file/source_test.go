package file_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/clickflow/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSource_LoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flow.yaml"), "version: 0\nflows:\n  - id: a\n")

	raw, err := file.NewSource(dir).LoadDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, raw["version"])
	assert.Len(t, raw["flows"], 1)
}

func TestSource_PrefersYAMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flow.json"), `{"version": 9}`)
	writeFile(t, filepath.Join(dir, "flow.yml"), "version: 0\n")

	src := file.NewSource(dir)
	p, err := src.DocumentPath()
	require.NoError(t, err)
	assert.Equal(t, "flow.yml", filepath.Base(p))
}

func TestSource_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flow.json"), `{"version": 0, "flows": []}`)

	raw, err := file.NewSource(dir).LoadDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(0), raw["version"])
}

func TestSource_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := file.NewSource(dir).LoadDocument(context.Background())
	assert.ErrorIs(t, err, file.ErrNoDocument)

	writeFile(t, filepath.Join(dir, "flow.yaml"), "version: [unclosed\n")
	_, err = file.NewSource(dir).LoadDocument(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = file.NewSource(dir).LoadDocument(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode_Empty(t *testing.T) {
	raw, err := file.Decode("flow.yaml", nil)
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Empty(t, raw)
}

func TestSource_StatAnchor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anchors", "login.png"), "png")
	src := file.NewSource(dir)
	ctx := context.Background()

	assert.NoError(t, src.StatAnchor(ctx, "anchors/login.png"))
	assert.ErrorIs(t, src.StatAnchor(ctx, "anchors/missing.png"), fs.ErrNotExist)
	assert.ErrorIs(t, src.StatAnchor(ctx, "anchors"), fs.ErrNotExist, "directories are not images")
}
