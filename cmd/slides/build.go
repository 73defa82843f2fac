package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the presentation into the output directory",
	Long: `Cleans the output directory, copies the slide framework and source assets,
writes every Markdown source to content/<name>.md with code fences escaped,
bundles each entry script and records the result in manifest.json.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var buildStrict bool

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail when index.html references files missing from the build")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadDeckConfig(cmd)
	if err != nil {
		return err
	}

	_, err = pipeline.Build(cmd.Context(), pipeline.BuildOptions{
		Config:           cfg,
		Verbose:          cfg.Verbose,
		StrictReferences: buildStrict,
		Out:              cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}
