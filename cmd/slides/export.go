package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/export"
	"github.com/jonathan/slide-deck/internal/pipeline"
	"github.com/jonathan/slide-deck/internal/server"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the presentation to PDF",
	Long: `Serves the build output on a free local port and prints it to PDF with headless Chrome,
using the slide framework's print layout. Use --url to export a deck that is already being served.

Requires Chrome or Chromium to be installed.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportOutput  string
	exportURL     string
	exportBuild   bool
	exportTimeout time.Duration
)

func init() {
	addBuildFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "pdf", "o", "deck.pdf", "Path to write the PDF to")
	exportCmd.Flags().StringVar(&exportURL, "url", "", "Export this URL instead of serving the build output")
	exportCmd.Flags().BoolVar(&exportBuild, "build", false, "Build before exporting")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", export.DefaultTimeout, "Maximum time for the export")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	deckURL := exportURL
	if deckURL == "" {
		cfg, err := loadDeckConfig(cmd)
		if err != nil {
			return err
		}

		if exportBuild {
			if _, err := pipeline.Build(ctx, pipeline.BuildOptions{
				Config:  cfg,
				Verbose: cfg.Verbose,
				Out:     cmd.OutOrStdout(),
			}); err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
		}

		srv, err := server.New(server.Config{Port: 0, Root: cfg.OutputDir, Verbose: cfg.Verbose})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		if err := srv.Listen(); err != nil {
			return err
		}

		served := make(chan error, 1)
		go func() { served <- srv.Serve(ctx) }()
		defer func() {
			cancel()
			if err := <-served; err != nil {
				log.Printf("[EXPORT] server: %v", err)
			}
		}()

		deckURL = srv.URL() + "/"
	}

	opts := export.DefaultOptions()
	opts.Timeout = exportTimeout
	opts.Verbose = deckVerbose

	fmt.Fprintf(cmd.OutOrStdout(), "Exporting %s...\n", deckURL)
	pdf, err := export.PDF(ctx, deckURL, opts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := os.WriteFile(exportOutput, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", exportOutput, len(pdf))
	return nil
}
