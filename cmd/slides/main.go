// Package main provides the entry point for the slides CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slides",
	Short: "Build and serve Markdown slide decks",
	Long: `slides builds a reveal.js presentation from Markdown sources and serves it locally.

Markdown is copied into the build with < and > escaped inside fenced code blocks,
so code samples render literally while HTML elsewhere on a slide keeps working.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
