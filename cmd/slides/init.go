package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/config"
	"github.com/jonathan/slide-deck/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter deck",
	Long:  `Writes deck.json and a starter src/ tree into dir (the current directory by default).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

var (
	initTitle string
	initForce bool
)

func init() {
	initCmd.Flags().StringVarP(&initTitle, "title", "t", "My Presentation", "Presentation title")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	written, err := scaffold.Init(dir, scaffold.Data{Title: initTitle, Port: config.DefaultPort}, initForce)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, path := range written {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(out, "  created %s\n", filepath.ToSlash(rel))
	}
	fmt.Fprintf(out, "\nInstall the framework with `npm install reveal.js`, then run `slides serve --build`.\n")
	return nil
}
