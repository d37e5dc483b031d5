// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite maps citation markers and manuscript sentences onto a pool of
// bibliographic records. Resolution itself is delegated to the generation
// service; this package owns prompt construction, output validation, and
// artifact persistence.
package cite

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/perspective-engine/internal/genai"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

// MatchReferences resolves every [REF] marker in marked against the record
// pool and returns the manuscript with in-text citations and an appended
// reference list. Markers the service cannot resolve come back as
// "[REF not found]". An empty service response is a hard error; the output
// is returned verbatim otherwise.
func MatchReferences(ctx context.Context, g genai.Generator, marked string, pool []types.Paper, maxRetries int) (string, error) {
	prompt, err := renderPrompt(matchPromptTmpl, marked, pool)
	if err != nil {
		return "", err
	}

	out, err := genai.CompleteWithRetry(ctx, g, prompt, maxRetries)
	if err != nil {
		return "", fmt.Errorf("matching references: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("matching references: generation service returned no content")
	}
	return out, nil
}

// MatchToFile runs MatchReferences and persists the result to outPath. The
// matched text is never silently dropped: either the file is written or an
// error is returned.
func MatchToFile(ctx context.Context, g genai.Generator, marked string, pool []types.Paper, maxRetries int, outPath string) error {
	out, err := MatchReferences(ctx, g, marked, pool, maxRetries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing matched manuscript: %w", err)
	}
	return nil
}
