package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"career-coach/internal/analyses"
	"career-coach/internal/roadmaps"
)

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a saved model reply",
	}

	var meta analyses.Meta
	analysisCmd := &cobra.Command{
		Use:   "analysis <reply.txt|->",
		Short: "Normalize an analysis reply into a structured report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			normalized, err := analyses.Normalize(reply, meta, analyses.DefaultPolicy)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"analysis":   normalized.Analysis,
				"validation": normalized.Validation,
			})
		},
	}
	analysisCmd.Flags().StringVar(&meta.JobTitle, "job-title", "", "Job title used in the default summary")
	analysisCmd.Flags().StringVar(&meta.CompanyName, "company", "", "Company used in the default summary")

	roadmapCmd := &cobra.Command{
		Use:   "roadmap <reply.txt|->",
		Short: "Normalize a roadmap reply into a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			normalized, err := roadmaps.Normalize(reply)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"roadmapData":  normalized.Graph,
				"droppedEdges": normalized.DroppedEdges,
			})
		},
	}

	cmd.AddCommand(analysisCmd, roadmapCmd)
	return cmd
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
