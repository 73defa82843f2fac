package content

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/slide-deck/internal/rendering"
)

// Dir is the output subdirectory content assets are written to.
const Dir = "content"

// Asset is one emitted content file.
type Asset struct {
	Source       string `json:"source"`             // Markdown source path
	Path         string `json:"path"`               // output path relative to the build root, slash-separated
	Bytes        int    `json:"bytes"`              // size after escaping
	Digest       string `json:"digest"`             // BLAKE2b-256 of the emitted bytes, hex
	Unterminated bool   `json:"unterminated_fence"` // source has an unpaired fence marker
}

// AssetPath returns the output path of the content asset for a Markdown file.
func AssetPath(source string) string {
	return path.Join(Dir, filepath.Base(source))
}

// IsMarkdown reports whether name is a Markdown source.
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

// Discover returns every Markdown file under srcDir in lexical order.
func Discover(srcDir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && IsMarkdown(d.Name()) {
			sources = append(sources, p)
		}
		return nil
	})
	if err != nil {
		return nil, &EmitError{Source: srcDir, Message: "failed to discover markdown", Cause: err}
	}
	sort.Strings(sources)
	return sources, nil
}

// Emit escapes every Markdown source under srcDir and writes it to
// outDir/content/<filename>. Documents are processed concurrently; two
// sources sharing a filename are rejected before anything is written.
func Emit(ctx context.Context, srcDir, outDir string) ([]Asset, error) {
	sources, err := Discover(srcDir)
	if err != nil {
		return nil, err
	}
	return EmitFiles(ctx, sources, outDir)
}

// EmitFiles is Emit for an explicit list of sources.
func EmitFiles(ctx context.Context, sources []string, outDir string) ([]Asset, error) {
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		name := AssetPath(src)
		if prev, dup := seen[name]; dup {
			return nil, &EmitError{
				Source:  src,
				Message: fmt.Sprintf("emits %s, already emitted by %s", name, prev),
			}
		}
		seen[name] = src
	}

	if len(sources) > 0 {
		if err := os.MkdirAll(filepath.Join(outDir, Dir), 0755); err != nil {
			return nil, &EmitError{Source: outDir, Message: "failed to create content directory", Cause: err}
		}
	}

	assets := make([]Asset, len(sources))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, src := range sources {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			asset, err := emitOne(src, outDir)
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

func emitOne(src, outDir string) (Asset, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return Asset{}, &EmitError{Source: src, Message: "failed to read", Cause: err}
	}

	doc := string(raw)
	escaped := []byte(rendering.EscapeCodeFences(doc))

	rel := AssetPath(src)
	if err := os.WriteFile(filepath.Join(outDir, filepath.FromSlash(rel)), escaped, 0644); err != nil {
		return Asset{}, &EmitError{Source: src, Message: "failed to write", Cause: err}
	}

	return Asset{
		Source:       filepath.ToSlash(src),
		Path:         rel,
		Bytes:        len(escaped),
		Digest:       Digest(escaped),
		Unterminated: rendering.Unterminated(doc),
	}, nil
}

// Digest returns the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
