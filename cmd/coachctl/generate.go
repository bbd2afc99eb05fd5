package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"career-coach/internal/analyses"
	"career-coach/internal/bootstrap"
	"career-coach/internal/extract"
	"career-coach/internal/roadmaps"
	"career-coach/internal/shared/config"
)

func newAnalyzeCmd() *cobra.Command {
	var req analyses.Request
	var jdFile string
	cmd := &cobra.Command{
		Use:   "analyze <resume.pdf>",
		Short: "Analyze a resume against a job with the configured model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if jdFile != "" {
				jd, err := os.ReadFile(jdFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", jdFile, err)
				}
				req.JobDescription = string(jd)
			}
			if req.JobDescription == "" {
				return fmt.Errorf("--job-description or --job-description-file is required")
			}

			cfg := config.Load()
			client, closeLLM, err := bootstrap.BuildLLM(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLLM()

			pipeline := &analyses.Pipeline{
				Extractor: extract.New(cfg.ExtractFallbackTimeout),
				LLM:       client,
				Policy:    analyses.DefaultPolicy,
			}
			result, err := pipeline.Run(cmd.Context(), req, data)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"extractionMethod": result.Extraction.Method,
				"scoreBand":        analyses.ScoreBand(result.Normalized.Analysis.ATSScore),
				"analysis":         result.Normalized.Analysis,
				"validation":       result.Normalized.Validation,
			})
		},
	}
	cmd.Flags().StringVar(&req.CompanyName, "company", "", "Company name")
	cmd.Flags().StringVar(&req.JobTitle, "job-title", "", "Job title")
	cmd.Flags().StringVar(&req.JobDescription, "job-description", "", "Job description text")
	cmd.Flags().StringVar(&jdFile, "job-description-file", "", "Read the job description from a file")
	return cmd
}

func newRoadmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roadmap <field>",
		Short: "Generate a learning roadmap for a skill or role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			client, closeLLM, err := bootstrap.BuildLLM(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLLM()

			gen := &roadmaps.Generator{LLM: client}
			normalized, err := gen.Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"roadmapData":  normalized.Graph,
				"droppedEdges": normalized.DroppedEdges,
			})
		},
	}
}
