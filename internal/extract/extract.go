// Package extract turns uploaded PDF bytes into plain text.
//
// A primary parser runs first. Only when it fails does a fallback walk the
// page content streams, and that attempt is bounded by a timeout. Extraction
// never returns an error: total failure yields empty text with MethodNone.
package extract

import (
	"context"
	"time"

	"career-coach/internal/shared/telemetry"
)

// Method records which strategy produced the text.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
	MethodNone     Method = "none"
)

// DefaultFallbackTimeout bounds the fallback strategy.
const DefaultFallbackTimeout = 15 * time.Second

// Result is the outcome of one extraction.
type Result struct {
	Text   string `json:"text"`
	Method Method `json:"method"`
}

// TextFunc extracts text from a whole PDF document.
type TextFunc func(ctx context.Context, data []byte) (string, error)

// Extractor runs the primary strategy and, on failure, the fallback.
type Extractor struct {
	Primary         TextFunc
	Fallback        TextFunc
	FallbackTimeout time.Duration
}

// New returns an Extractor wired to the PDF parsers.
func New(fallbackTimeout time.Duration) *Extractor {
	if fallbackTimeout <= 0 {
		fallbackTimeout = DefaultFallbackTimeout
	}
	return &Extractor{
		Primary:         PlainText,
		Fallback:        ContentStreamText,
		FallbackTimeout: fallbackTimeout,
	}
}

// Extract returns the document text and the method that produced it.
func (e *Extractor) Extract(ctx context.Context, data []byte) Result {
	start := time.Now()

	text, err := safeCall(ctx, e.Primary, data)
	if err == nil {
		return e.done(Result{Text: text, Method: MethodPrimary}, len(data), start)
	}
	telemetry.Warn("extract.primary.failed", map[string]any{"err": err, "bytes": len(data)})

	out := RunWithTimeout(ctx, e.FallbackTimeout, e.Fallback, data)
	switch out.Kind {
	case OutcomeOK:
		return e.done(Result{Text: out.Text, Method: MethodFallback}, len(data), start)
	case OutcomeTimedOut:
		telemetry.Warn("extract.fallback.timeout", map[string]any{"timeout_ms": e.FallbackTimeout.Milliseconds(), "bytes": len(data)})
	default:
		telemetry.Warn("extract.fallback.failed", map[string]any{"err": out.Err, "bytes": len(data)})
	}
	return e.done(Result{Text: "", Method: MethodNone}, len(data), start)
}

func (e *Extractor) done(r Result, size int, start time.Time) Result {
	telemetry.Info("extract.complete", map[string]any{
		"method":      string(r.Method),
		"text_len":    len(r.Text),
		"bytes":       size,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return r
}
