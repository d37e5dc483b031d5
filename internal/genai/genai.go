// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai abstracts the text-generation service the citation and
// article stages delegate to. Callers depend on the Generator interface;
// tests supply deterministic doubles.
package genai

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Generator produces a completion for a prompt. Implementations return an
// error for transport failures and for responses without content; an empty
// completion is never a valid result.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// CompleteWithRetry calls the generator with exponential backoff between
// attempts. maxRetries <= 0 uses the default of 3.
func CompleteWithRetry(ctx context.Context, g Generator, prompt string, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := g.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
