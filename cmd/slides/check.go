package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/content"
	"github.com/jonathan/slide-deck/internal/observability"
	"github.com/jonathan/slide-deck/internal/rendering"
)

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Report code fence pairing and slide outlines of Markdown sources",
	Long: `Checks every Markdown document under the given files or directories (the source
directory when none are given) for unpaired code fence markers. An unpaired marker
leaves the rest of the document unescaped.`,
	RunE: runCheck,
}

var (
	checkStrict  bool
	checkOutline bool
)

func init() {
	addBuildFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit non-zero when a document has an unterminated fence")
	checkCmd.Flags().BoolVar(&checkOutline, "outline", false, "Print the slide outline of each document")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cfg, err := loadDeckConfig(cmd)
		if err != nil {
			return err
		}
		args = []string{cfg.SourceDir}
	}

	docs, err := collectMarkdown(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Markdown documents found.")
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	reports := make([]observability.FenceReport, 0, len(docs))
	unterminated := 0
	for _, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		report := observability.NewFenceReport(path, string(data))
		if report.Unterminated() {
			unterminated++
		}
		reports = append(reports, report)

		if checkOutline {
			printer.PrintOutline(path, rendering.Summarize(string(data)))
		}
	}
	printer.PrintFenceReport(reports)

	if checkStrict && unterminated > 0 {
		return fmt.Errorf("%d of %d documents have unterminated code fences", unterminated, len(docs))
	}
	return nil
}

// collectMarkdown expands directories into the Markdown files under them.
func collectMarkdown(paths []string) ([]string, error) {
	var docs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			docs = append(docs, filepath.Clean(p))
			continue
		}
		found, err := content.Discover(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	return docs, nil
}
