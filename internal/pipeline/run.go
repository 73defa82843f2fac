// Package pipeline provides the high-level orchestration for building a slide deck.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/slide-deck/internal/assets"
	"github.com/jonathan/slide-deck/internal/bundle"
	"github.com/jonathan/slide-deck/internal/config"
	"github.com/jonathan/slide-deck/internal/content"
	"github.com/jonathan/slide-deck/internal/inspect"
	"github.com/jonathan/slide-deck/internal/observability"
)

// ProgressEvent represents a progress update during a build
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Category string `json:"category"`
	Message  string `json:"message"`
	BuildID  string `json:"build_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when build progress occurs
type ProgressCallback func(event ProgressEvent)

// BuildOptions holds configuration for running a build
type BuildOptions struct {
	Config           config.Config
	WorkingDir       string // Relative paths in Config resolve against it; defaults to the process working directory
	Verbose          bool
	StrictReferences bool      // Fail when index.html references files missing from the output
	Out              io.Writer // Step lines and verbose summaries; defaults to os.Stdout
	OnProgress       ProgressCallback
}

// Result is what a successful build produced.
type Result struct {
	Manifest  *Manifest
	OutputDir string
	Framework assets.Stats
	Source    assets.Stats
	Missing   []inspect.Reference // references reported by the verify stage
	Warnings  []string
}

// paths are the absolute directories a build works with.
type paths struct {
	work, src, out, framework string
	entries                   map[string]string
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *BuildOptions, buildID, stage, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Stage:    stage,
			Category: stageCategory(stage),
			Message:  message,
			BuildID:  buildID,
			Content:  content,
		})
	}
}

// Build cleans the output directory and produces a complete deck in it:
// framework runtime, source assets, escaped content assets, one bundle per
// entry and a manifest. Any failing stage aborts the build.
func Build(ctx context.Context, opts BuildOptions) (*Result, error) {
	started := time.Now()
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printer := observability.NewPrinter(out)
	buildID := uuid.New().String()

	if err := ValidateOrder(Stages); err != nil {
		return nil, err
	}

	cfg := opts.Config.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := resolvePaths(opts.WorkingDir, &cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{OutputDir: p.out}
	step := func(stage, format string, args ...any) {
		n, total := stageNumber(stage)
		fmt.Fprintf(out, "Step %d/%d: %s\n", n, total, fmt.Sprintf(format, args...))
	}

	step(StageClean, "Cleaning %s...", p.out)
	if err := assets.Clean(p.out); err != nil {
		return nil, &StageError{Stage: StageClean, Cause: err}
	}
	emitProgress(&opts, buildID, StageClean, "Cleaned output directory", nil)

	// Source assets are copied after the framework so a deck can override
	// framework files; content emission runs alongside the source copy.
	step(StageCopy, "Copying framework and source assets...")
	framework, err := assets.CopyTree(ctx, p.framework, p.out, assets.FrameworkFilter())
	if err != nil {
		return nil, &StageError{Stage: StageCopy, Cause: fmt.Errorf("framework: %w", err)}
	}
	result.Framework = framework

	entryPaths := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		entryPaths = append(entryPaths, entry)
	}

	g, gCtx := errgroup.WithContext(ctx)
	var emitted []content.Asset
	g.Go(func() error {
		stats, err := assets.CopyTree(gCtx, p.src, p.out, assets.SourceFilter(p.src, entryPaths))
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		result.Source = stats
		return nil
	})
	g.Go(func() error {
		assetsOut, err := content.Emit(gCtx, p.src, p.out)
		if err != nil {
			return &StageError{Stage: StageContent, Cause: err}
		}
		emitted = assetsOut
		return nil
	})
	if err := g.Wait(); err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			return nil, err
		}
		return nil, &StageError{Stage: StageCopy, Cause: err}
	}
	emitProgress(&opts, buildID, StageCopy,
		fmt.Sprintf("Copied %d framework and %d source files", result.Framework.Files, result.Source.Files), nil)

	step(StageContent, "Escaped %d Markdown documents", len(emitted))
	for _, asset := range emitted {
		if asset.Unterminated {
			warn := fmt.Sprintf("%s has an unterminated code fence; text after the last marker was not escaped", asset.Source)
			log.Printf("[BUILD] warning: %s", warn)
			result.Warnings = append(result.Warnings, warn)
		}
	}
	emitProgress(&opts, buildID, StageContent,
		fmt.Sprintf("Emitted %d content assets", len(emitted)), emitted)

	step(StageBundle, "Bundling %d entries...", len(p.entries))
	outputs, err := bundle.Build(ctx, bundle.Options{
		Entries:    p.entries,
		OutDir:     p.out,
		Minify:     cfg.Minify,
		WorkingDir: p.work,
	})
	if err != nil {
		return nil, &StageError{Stage: StageBundle, Cause: err}
	}

	bundles := make([]BundleEntry, 0, len(outputs))
	for _, o := range outputs {
		oversized := cfg.MaxAssetSize > 0 && o.Bytes > cfg.MaxAssetSize
		if oversized {
			warn := fmt.Sprintf("%s is %s, above the %s asset size limit",
				o.Path, observability.FormatBytes(o.Bytes), observability.FormatBytes(cfg.MaxAssetSize))
			log.Printf("[BUILD] warning: %s", warn)
			result.Warnings = append(result.Warnings, warn)
		}
		bundles = append(bundles, BundleEntry{Output: o, Oversized: oversized})
	}
	emitProgress(&opts, buildID, StageBundle, fmt.Sprintf("Wrote %d bundles", len(bundles)), outputs)

	step(StageVerify, "Checking references in %s...", inspect.IndexFile)
	if _, err := inspect.CheckReferences(p.out); err != nil {
		var missing *inspect.MissingAssetError
		if !errors.As(err, &missing) || opts.StrictReferences {
			return nil, &StageError{Stage: StageVerify, Cause: err}
		}
		result.Missing = missing.Missing
		for _, ref := range missing.Missing {
			warn := fmt.Sprintf("%s references missing file %s", inspect.IndexFile, ref.Target)
			log.Printf("[BUILD] warning: %s", warn)
			result.Warnings = append(result.Warnings, warn)
		}
	}
	emitProgress(&opts, buildID, StageVerify,
		fmt.Sprintf("%d missing references", len(result.Missing)), nil)

	step(StageManifest, "Writing %s...", ManifestFile)
	manifest := &Manifest{
		BuildID: buildID,
		BuiltAt: time.Now().UTC(),
		Bundles: bundles,
		Content: relativeSources(p.work, emitted),
	}
	if err := WriteManifest(p.out, manifest); err != nil {
		return nil, &StageError{Stage: StageManifest, Cause: err}
	}
	result.Manifest = manifest
	emitProgress(&opts, buildID, StageManifest, "Build complete", manifest)

	if opts.Verbose || cfg.Verbose {
		printer.PrintBuildSummary(&observability.BuildSummary{
			BuildID:        buildID,
			OutputDir:      p.out,
			Duration:       time.Since(started),
			FrameworkFiles: result.Framework.Files,
			SourceFiles:    result.Source.Files,
			Bundles:        outputs,
			Content:        manifest.Content,
			MaxAssetSize:   cfg.MaxAssetSize,
		})
	}

	fmt.Fprintf(out, "Done! Deck written to %s\n", p.out)
	return result, nil
}

func resolvePaths(workDir string, cfg *config.Config) (*paths, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(workDir, p)
	}

	p := &paths{
		work:      workDir,
		src:       abs(cfg.SourceDir),
		out:       abs(cfg.OutputDir),
		framework: abs(cfg.FrameworkDir),
		entries:   make(map[string]string, len(cfg.Entries)),
	}
	// The output directory is wiped and written to, so it must not overlap
	// anything the build reads.
	switch {
	case within(p.out, p.work):
		return nil, fmt.Errorf("output directory %s must not contain the working directory", p.out)
	case within(p.out, p.src):
		return nil, fmt.Errorf("output directory %s must not contain the source directory %s", p.out, p.src)
	case within(p.src, p.out):
		return nil, fmt.Errorf("output directory %s must not be inside the source directory %s", p.out, p.src)
	case within(p.out, p.framework):
		return nil, fmt.Errorf("output directory %s must not contain the framework directory %s", p.out, p.framework)
	case within(p.framework, p.out):
		return nil, fmt.Errorf("output directory %s must not be inside the framework directory %s", p.out, p.framework)
	}
	for name, entry := range cfg.Entries {
		p.entries[name] = abs(entry)
	}
	return p, nil
}

// within reports whether path is dir or lies under it. Both must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// relativeSources rewrites asset sources relative to the working directory
// so manifests do not depend on where the deck was checked out.
func relativeSources(workDir string, emitted []content.Asset) []content.Asset {
	out := make([]content.Asset, len(emitted))
	for i, asset := range emitted {
		if rel, err := filepath.Rel(workDir, asset.Source); err == nil {
			asset.Source = filepath.ToSlash(rel)
		}
		out[i] = asset
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
