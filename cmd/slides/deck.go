package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/config"
)

// defaultConfigFile is picked up from the working directory when --config is not given.
const defaultConfigFile = "deck.json"

// Flags shared by every command that builds or reads a deck.
var (
	deckConfigPath   string
	deckSrcDir       string
	deckOutDir       string
	deckFrameworkDir string
	deckMinify       bool
	deckVerbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deckConfigPath, "config", "", "Path to deck.json (defaults to ./deck.json when present)")
	rootCmd.PersistentFlags().BoolVarP(&deckVerbose, "verbose", "v", false, "Print detailed information")
}

// addBuildFlags registers the flags that override build paths.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&deckSrcDir, "src", "", "Slide source directory (default \"src\")")
	cmd.Flags().StringVar(&deckOutDir, "out", "", "Build output directory (default \"dist\")")
	cmd.Flags().StringVar(&deckFrameworkDir, "framework", "", "Slide framework directory (default \"node_modules/reveal.js\")")
	cmd.Flags().BoolVar(&deckMinify, "minify", true, "Minify bundles")
}

// loadDeckConfig resolves the deck configuration for cmd.
// Precedence: flags, then SLIDES_* environment, then deck.json, then defaults.
func loadDeckConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	flags := cmd.Flags()

	path := deckConfigPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to check %s: %w", defaultConfigFile, err)
		}
	}

	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if deckVerbose {
			log.Printf("[CONFIG] Loaded config from: %s", path)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	// Only override if the flag was explicitly set
	if flags.Changed("src") {
		cfg.SourceDir = deckSrcDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = deckOutDir
	}
	if flags.Changed("framework") {
		cfg.FrameworkDir = deckFrameworkDir
	}
	// Minify defaults on unless a config file says otherwise.
	if flags.Lookup("minify") != nil && (flags.Changed("minify") || path == "") {
		cfg.Minify = deckMinify
	}
	if flags.Changed("verbose") {
		cfg.Verbose = deckVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
