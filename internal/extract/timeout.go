package extract

import (
	"context"
	"errors"
	"time"
)

// OutcomeKind tags how a bounded extraction ended.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeTimedOut
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "error"
	}
}

// Outcome is the result of RunWithTimeout. Text is set only for OutcomeOK
// and Err only for OutcomeError.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// RunWithTimeout races fn against a deadline. Whichever finishes first
// decides the outcome; a late result from fn is discarded. fn receives a
// context that is cancelled when the race ends.
func RunWithTimeout(ctx context.Context, d time.Duration, fn TextFunc, data []byte) Outcome {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	// Buffered so the worker never blocks after the deadline wins.
	done := make(chan Outcome, 1)
	go func() {
		text, err := safeCall(ctx, fn, data)
		if err != nil {
			done <- Outcome{Kind: OutcomeError, Err: err}
			return
		}
		done <- Outcome{Kind: OutcomeOK, Text: text}
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{Kind: OutcomeTimedOut}
		}
		return Outcome{Kind: OutcomeError, Err: ctx.Err()}
	}
}
