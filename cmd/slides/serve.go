package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/pipeline"
	"github.com/jonathan/slide-deck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built presentation",
	Long:  `Start a static file server over the build output. Use --build to build first.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	servePort  int
	serveBuild bool
)

func init() {
	addBuildFlags(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default 3000)")
	serveCmd.Flags().BoolVar(&serveBuild, "build", false, "Build before serving")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadDeckConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if serveBuild {
		if _, err := pipeline.Build(cmd.Context(), pipeline.BuildOptions{
			Config:  cfg,
			Verbose: cfg.Verbose,
			Out:     cmd.OutOrStdout(),
		}); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
	}

	srv, err := server.New(server.Config{
		Port:    cfg.Port,
		Root:    cfg.OutputDir,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Verbose {
		logServedBuild(cfg.OutputDir)
	}

	return srv.Start(cmd.Context())
}

// logServedBuild reports which build is being served, if dir has a manifest.
func logServedBuild(dir string) {
	if manifest, err := pipeline.ReadManifest(dir); err == nil {
		log.Printf("[SERVE] Serving build %s from %s", manifest.BuildID, dir)
	}
}
