package analyses

import (
	"context"
	"time"

	"career-coach/internal/extract"
	"career-coach/internal/llm"
	"career-coach/internal/shared/apperr"
	"career-coach/internal/shared/metrics"
	"career-coach/internal/shared/telemetry"
)

// TextExtractor turns resume bytes into text. It never fails.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) extract.Result
}

// Pipeline is extraction, prompting, generation and normalization with no
// persistence. The service and the CLI both run it.
type Pipeline struct {
	Extractor TextExtractor
	LLM       llm.Client
	Policy    Policy
}

// PipelineResult is everything a run produced.
type PipelineResult struct {
	Extraction extract.Result
	Normalized Normalized
	PromptHash string
}

// Run analyzes a resume against req. Errors carry the failing step.
func (p *Pipeline) Run(ctx context.Context, req Request, resume []byte) (PipelineResult, error) {
	extraction := p.Extractor.Extract(ctx, resume)
	metrics.IncExtraction(string(extraction.Method))

	prompt := llm.BuildAnalysisPrompt(llm.AnalysisPromptInput{
		ResumeText:       extraction.Text,
		JobDescription:   req.JobDescription,
		JobTitle:         req.JobTitle,
		CompanyName:      req.CompanyName,
		ExtractionMethod: string(extraction.Method),
	})
	result := PipelineResult{Extraction: extraction, PromptHash: llm.PromptHash(prompt)}

	start := time.Now()
	reply, err := p.LLM.Complete(ctx, prompt)
	metrics.ObserveGenerationDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return result, apperr.Wrap("generate analysis", err)
	}

	policy := p.Policy
	if len(policy.Lists) == 0 {
		policy = DefaultPolicy
	}
	normalized, err := Normalize(reply, Meta{JobTitle: req.JobTitle, CompanyName: req.CompanyName}, policy)
	if err != nil {
		return result, apperr.Wrap("normalize analysis", err)
	}
	if !normalized.Validation.Valid {
		telemetry.Warn("analysis.reply.repaired", map[string]any{
			"prompt_hash": result.PromptHash,
			"reasons":     normalized.Validation.Reasons,
		})
	}
	result.Normalized = normalized
	return result, nil
}
