package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck/internal/rendering"
)

var escapeCmd = &cobra.Command{
	Use:   "escape [file]",
	Short: "Escape < and > inside fenced code blocks of a Markdown document",
	Long: `Reads a Markdown document from a file, or stdin when no file or "-" is given,
and writes it with < and > inside triple-backtick fences replaced by &lt; and &gt;.
Everything outside the fences is written unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEscape,
}

var escapeOutput string

func init() {
	escapeCmd.Flags().StringVarP(&escapeOutput, "out", "o", "", "Write to this file instead of stdout")

	rootCmd.AddCommand(escapeCmd)
}

func runEscape(cmd *cobra.Command, args []string) error {
	var doc []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		doc, err = io.ReadAll(cmd.InOrStdin())
	} else {
		doc, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	escaped := rendering.EscapeCodeFences(string(doc))
	if rendering.Unterminated(string(doc)) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: unterminated code fence; text after the last marker was left as is")
	}

	if escapeOutput == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), escaped)
		return err
	}
	if err := os.WriteFile(escapeOutput, []byte(escaped), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
