package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/jonathan/slide-deck/internal/content"
)

// Options configures a bundling run.
type Options struct {
	Entries    map[string]string // bundle name -> entry script
	OutDir     string
	Minify     bool
	WorkingDir string // entry paths are resolved against it; defaults to the process working directory
}

// Output describes one written bundle.
type Output struct {
	Name  string `json:"name"`
	Path  string `json:"path"` // relative to OutDir
	Bytes int64  `json:"bytes"`
}

// Build bundles every entry into OutDir/<name>.js for the browser.
// Markdown imports resolve to the URL of their content asset, which the
// content emitter writes; the bundle never inlines Markdown.
func Build(ctx context.Context, opts Options) ([]Output, error) {
	if len(opts.Entries) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, &BundleError{Cause: fmt.Errorf("failed to get current directory: %w", err)}
		}
		workDir = cwd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, &BundleError{Cause: err}
	}

	outDir := opts.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	names := make([]string, 0, len(opts.Entries))
	for name := range opts.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	entryPoints := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  opts.Entries[name],
			OutputPath: name,
		})
	}

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		AbsWorkingDir:       workDir,
		Outdir:              outDir,
		Bundle:              true,
		Write:               true,
		Platform:            api.PlatformBrowser,
		Format:              api.FormatIIFE,
		MinifyWhitespace:    opts.Minify,
		MinifyIdentifiers:   opts.Minify,
		MinifySyntax:        opts.Minify,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{markdownPlugin()},
	})

	if len(result.Errors) > 0 {
		return nil, &BundleError{Messages: formatMessages(result.Errors)}
	}

	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		rel := name + ".js"
		info, err := os.Stat(filepath.Join(outDir, rel))
		if err != nil {
			return nil, &BundleError{Entry: opts.Entries[name], Cause: fmt.Errorf("bundle not written: %w", err)}
		}
		outputs = append(outputs, Output{Name: name, Path: rel, Bytes: info.Size()})
	}

	return outputs, nil
}

// markdownPlugin makes `import slides from './intro.md'` evaluate to
// "content/intro.md".
func markdownPlugin() api.Plugin {
	return api.Plugin{
		Name: "markdown-content",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `(?i)\.md$`, Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					module := "export default " + strconv.Quote(content.AssetPath(args.Path)) + ";\n"
					return api.OnLoadResult{
						Contents: &module,
						Loader:   api.LoaderJS,
					}, nil
				})
		},
	}
}

func formatMessages(msgs []api.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location != nil {
			out = append(out, fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text))
			continue
		}
		out = append(out, msg.Text)
	}
	return out
}
