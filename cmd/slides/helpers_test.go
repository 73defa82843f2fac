package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can be run
// repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newDeckDir lays out a buildable deck and makes it the working directory.
func newDeckDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "node_modules", "reveal.js", "dist", "reveal.css"), ".reveal{}")
	writeFile(t, filepath.Join(dir, "node_modules", "reveal.js", "dist", "reveal.js"), "var Reveal={};")
	writeFile(t, filepath.Join(dir, "node_modules", "reveal.js", "package.json"), "{}")

	writeFile(t, filepath.Join(dir, "src", "index.html"),
		`<html><head><link rel="stylesheet" href="dist/reveal.css"></head><body><script src="main.js"></script></body></html>`)
	writeFile(t, filepath.Join(dir, "src", "index.js"), "window.deckReady = true;\n")
	writeFile(t, filepath.Join(dir, "src", "content", "index.js"),
		"import intro from './intro.md';\nwindow.deckContent = [intro];\n")
	writeFile(t, filepath.Join(dir, "src", "content", "intro.md"), "# Intro\n\n```\n<b>bold?</b>\n```\n\n<b>bold</b>\n")

	t.Chdir(dir)
	return dir
}
