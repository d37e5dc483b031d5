// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/perspective-engine/internal/genai"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

const (
	minReferencesPerSentence = 1
	maxReferencesPerSentence = 3
)

// RankReferences extracts verbatim key sentences from the manuscript and
// ranks up to three supporting records per sentence, all decided by the
// generation service under a strict output schema. The returned raw string
// is the undecoded service payload; on validation failure it is the
// caller's diagnostic material. Ranking is all-or-nothing: a payload that
// fails any structural constraint yields an error, never a partial result.
func RankReferences(ctx context.Context, g genai.Generator, manuscript string, pool []types.Paper, maxRetries int) (*types.StudyExtractionResult, string, error) {
	prompt, err := renderPrompt(rankPromptTmpl, manuscript, pool)
	if err != nil {
		return nil, "", err
	}

	raw, err := genai.CompleteWithRetry(ctx, g, prompt, maxRetries)
	if err != nil {
		return nil, "", fmt.Errorf("ranking references: %w", err)
	}

	result, err := decodeExtraction(raw, manuscript)
	if err != nil {
		return nil, raw, err
	}
	return result, raw, nil
}

// RankToFile runs RankReferences and persists the validated result as
// indented JSON at outPath. On any parse or validation failure the raw
// payload (or the failure description when no payload exists) is written to
// the sibling diagnostic artifact outPath+".error" and the error is
// returned to the caller.
func RankToFile(ctx context.Context, g genai.Generator, manuscript string, pool []types.Paper, maxRetries int, outPath string) (*types.StudyExtractionResult, error) {
	result, raw, err := RankReferences(ctx, g, manuscript, pool, maxRetries)
	if err != nil {
		diagnostic := raw
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		if werr := os.WriteFile(outPath+".error", []byte(diagnostic), 0o644); werr != nil {
			return nil, fmt.Errorf("writing diagnostic artifact: %v (original error: %w)", werr, err)
		}
		return nil, err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling extraction result: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing extraction result: %w", err)
	}
	return result, nil
}

// decodeExtraction parses the payload as a StudyExtractionResult and checks
// every structural constraint: the key_sentences field must exist, each
// sentence must carry 1-3 references with non-empty citation strings, and
// each verbatim context must be an exact substring of the manuscript.
func decodeExtraction(raw, manuscript string) (*types.StudyExtractionResult, error) {
	// The field is a pointer so a payload that omits it entirely is
	// distinguishable from an empty list.
	var payload struct {
		KeySentences *[]types.KeySentenceExtraction `json:"key_sentences"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parsing extraction payload: %w", err)
	}
	if payload.KeySentences == nil {
		return nil, fmt.Errorf("extraction payload missing key_sentences field")
	}

	result := &types.StudyExtractionResult{KeySentences: *payload.KeySentences}
	for i, ks := range result.KeySentences {
		if strings.TrimSpace(ks.VerbatimContext) == "" {
			return nil, fmt.Errorf("key sentence %d: empty verbatim_context", i)
		}
		if !strings.Contains(manuscript, ks.VerbatimContext) {
			return nil, fmt.Errorf("key sentence %d: verbatim_context is not an exact substring of the manuscript", i)
		}
		if n := len(ks.References); n < minReferencesPerSentence || n > maxReferencesPerSentence {
			return nil, fmt.Errorf("key sentence %d: %d references, want between %d and %d", i, n, minReferencesPerSentence, maxReferencesPerSentence)
		}
		for j, ref := range ks.References {
			if strings.TrimSpace(ref.InText) == "" {
				return nil, fmt.Errorf("key sentence %d, reference %d: empty in_text citation", i, j)
			}
			if strings.TrimSpace(ref.FullReference) == "" {
				return nil, fmt.Errorf("key sentence %d, reference %d: empty full_reference", i, j)
			}
		}
	}
	return result, nil
}

// stripFences removes a surrounding Markdown code fence, which models emit
// despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
