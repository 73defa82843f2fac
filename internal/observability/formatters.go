// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/slide-deck/internal/bundle"
	"github.com/jonathan/slide-deck/internal/content"
	"github.com/jonathan/slide-deck/internal/rendering"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// BuildSummary is what a finished build reports.
type BuildSummary struct {
	BuildID        string
	OutputDir      string
	Duration       time.Duration
	FrameworkFiles int
	SourceFiles    int
	Bundles        []bundle.Output
	Content        []content.Asset
	MaxAssetSize   int64
}

// FenceReport describes the fence pairing of one Markdown document.
type FenceReport struct {
	Path     string
	Blocks   int
	Dangling int // byte offset of an unpaired marker, -1 if all markers pair
}

// NewFenceReport inspects doc and reports its fence pairing.
func NewFenceReport(path, doc string) FenceReport {
	spans, dangling := rendering.FenceSpans(doc)
	return FenceReport{Path: path, Blocks: len(spans), Dangling: dangling}
}

// Unterminated reports whether the document has an unpaired fence marker.
func (r FenceReport) Unterminated() bool {
	return r.Dangling >= 0
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBuildSummary outputs the bundles and content assets a build produced.
func (p *Printer) PrintBuildSummary(summary *BuildSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Build:    %s\n", summary.BuildID))
	sb.WriteString(fmt.Sprintf("Output:   %s\n", summary.OutputDir))
	if summary.Duration > 0 {
		sb.WriteString(fmt.Sprintf("Took:     %s\n", summary.Duration.Round(time.Millisecond)))
	}
	sb.WriteString(fmt.Sprintf("Copied:   %d framework, %d source files\n", summary.FrameworkFiles, summary.SourceFiles))

	if len(summary.Bundles) > 0 {
		sb.WriteString("\nBundles:\n")
		for _, out := range summary.Bundles {
			sb.WriteString(fmt.Sprintf("  • %s (%s)", out.Path, FormatBytes(out.Bytes)))
			if summary.MaxAssetSize > 0 && out.Bytes > summary.MaxAssetSize {
				sb.WriteString(" [over limit]")
			}
			sb.WriteString("\n")
		}
	}

	if len(summary.Content) > 0 {
		sb.WriteString("\nContent:\n")
		count := min(len(summary.Content), maxItemsToShow)
		for i := 0; i < count; i++ {
			asset := summary.Content[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)", asset.Path, FormatBytes(int64(asset.Bytes))))
			if asset.Unterminated {
				sb.WriteString(" [unterminated fence]")
			}
			sb.WriteString("\n")
		}
		if len(summary.Content) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Content)-maxItemsToShow))
		}
	}

	p.printBox("BUILD SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutline outputs the slide headings of a document.
func (p *Printer) PrintOutline(path string, summary rendering.Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Slides: %d   Code blocks: %d\n", summary.Slides, summary.CodeBlocks))

	if len(summary.Headings) == 0 {
		sb.WriteString("\n(no headings)")
	} else {
		sb.WriteString("\n")
		for _, h := range summary.Headings {
			indent := strings.Repeat("  ", max(h.Level-1, 0))
			sb.WriteString(fmt.Sprintf("%s%s %s\n", indent, strings.Repeat("#", h.Level), h.Text))
		}
	}

	p.printBox("OUTLINE: "+path, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFenceReport outputs fence pairing per document, unterminated first.
func (p *Printer) PrintFenceReport(reports []FenceReport) {
	if len(reports) == 0 {
		return
	}

	var sb strings.Builder
	bad := 0
	for _, r := range reports {
		if r.Unterminated() {
			bad++
		}
	}
	sb.WriteString(fmt.Sprintf("Checked %d documents, %d unterminated\n\n", len(reports), bad))

	for _, r := range reports {
		if !r.Unterminated() {
			continue
		}
		sb.WriteString(fmt.Sprintf("✗ %s\n", r.Path))
		sb.WriteString(fmt.Sprintf("    unpaired marker at byte %d\n", r.Dangling))
	}
	for _, r := range reports {
		if r.Unterminated() {
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s (%d blocks)\n", r.Path, r.Blocks))
	}

	p.printBox("CODE FENCES", strings.TrimSuffix(sb.String(), "\n"))
}

// FormatBytes renders a byte count the way build tools report asset sizes.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
