package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"career-coach/internal/extract"
)

func newExtractCmd() *cobra.Command {
	var (
		timeout time.Duration
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Extract text from a PDF and report which method produced it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			result := extract.New(timeout).Extract(cmd.Context(), data)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "method: %s\n\n%s\n", result.Method, result.Text)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "fallback-timeout", extract.DefaultFallbackTimeout, "Bound on the fallback extractor")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
