package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCopyTree_FrameworkFilter(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "dist", "reveal.js"), "reveal")
	writeFile(t, filepath.Join(src, "dist", "theme", "black.css"), "css")
	writeFile(t, filepath.Join(src, "plugin", "markdown", "markdown.js"), "md plugin")
	writeFile(t, filepath.Join(src, "index.html"), "<html>")
	writeFile(t, filepath.Join(src, "demo.html"), "<html>")
	writeFile(t, filepath.Join(src, "LICENSE"), "MIT")
	writeFile(t, filepath.Join(src, "README.md"), "# reveal")
	writeFile(t, filepath.Join(src, "package.json"), "{}")

	stats, err := CopyTree(context.Background(), src, dst, FrameworkFilter())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 5, stats.Skipped)
	assert.FileExists(t, filepath.Join(dst, "dist", "reveal.js"))
	assert.FileExists(t, filepath.Join(dst, "dist", "theme", "black.css"))
	assert.FileExists(t, filepath.Join(dst, "plugin", "markdown", "markdown.js"))
	assert.NoFileExists(t, filepath.Join(dst, "index.html"))
	assert.NoFileExists(t, filepath.Join(dst, "LICENSE"))
	assert.NoFileExists(t, filepath.Join(dst, "README.md"))
	assert.NoFileExists(t, filepath.Join(dst, "package.json"))
}

func TestCopyTree_SourceFilter(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dist")

	writeFile(t, filepath.Join(src, "index.html"), "<html>")
	writeFile(t, filepath.Join(src, "index.js"), "import 'x'")
	writeFile(t, filepath.Join(src, "deck.js"), "entry")
	writeFile(t, filepath.Join(src, "style.css"), "body{}")
	writeFile(t, filepath.Join(src, "img", "logo.png"), "png")
	writeFile(t, filepath.Join(src, "content", "index.js"), "import a from './a.md'")
	writeFile(t, filepath.Join(src, "content", "a.md"), "# A")

	filter := SourceFilter(src, []string{filepath.Join(src, "deck.js")})
	stats, err := CopyTree(context.Background(), src, dst, filter)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Files)
	assert.FileExists(t, filepath.Join(dst, "index.html"))
	assert.FileExists(t, filepath.Join(dst, "style.css"))
	assert.FileExists(t, filepath.Join(dst, "img", "logo.png"))
	assert.NoFileExists(t, filepath.Join(dst, "index.js"))
	assert.NoFileExists(t, filepath.Join(dst, "deck.js"))
	assert.NoFileExists(t, filepath.Join(dst, "content", "a.md"))
	// no file landed in content/, so the directory is not created
	assert.NoDirExists(t, filepath.Join(dst, "content"))
}

func TestCopyTree_PreservesContent(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a", "b.txt"), "hello <world>")

	stats, err := CopyTree(context.Background(), src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello <world>")), stats.Bytes)

	data, err := os.ReadFile(filepath.Join(dst, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello <world>", string(data))
}

func TestCopyTree_MissingSource(t *testing.T) {
	_, err := CopyTree(context.Background(), "/nonexistent/framework", t.TempDir(), nil)
	require.Error(t, err)

	var copyErr *CopyError
	assert.ErrorAs(t, err, &copyErr)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestCopyTree_SourceIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, file, "x")

	_, err := CopyTree(context.Background(), file, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestCopyTree_Cancelled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CopyTree(ctx, src, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClean_RemovesContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(dir, "old", "stale.js"), "old")

	require.NoError(t, Clean(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClean_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "dist")

	require.NoError(t, Clean(dir))
	assert.DirExists(t, dir)
}

func TestClean_RefusesWorkingDirectory(t *testing.T) {
	err := Clean(".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "working directory")
}

func TestClean_RefusesRoot(t *testing.T) {
	err := Clean(string(filepath.Separator))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem root")
}
