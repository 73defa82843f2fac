package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "talk")

	stdout, _, err := execute(t, nil, "init", dir, "--title", "Fences & Friends")
	require.NoError(t, err)

	assert.Contains(t, stdout, "created deck.json")
	assert.Contains(t, stdout, "created src/content/intro.md")
	assert.Contains(t, readFile(t, filepath.Join(dir, "src", "index.html")), "<title>Fences &amp; Friends</title>")
	assert.Contains(t, readFile(t, filepath.Join(dir, "src", "content", "intro.md")), "# Fences & Friends")
}

func TestInitCommand_ExistingFiles(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, nil, "init", dir)
	require.NoError(t, err)

	_, _, err = execute(t, nil, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	_, _, err = execute(t, nil, "init", dir, "--force", "--title", "Again")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "src", "content", "intro.md")), "# Again")
}
