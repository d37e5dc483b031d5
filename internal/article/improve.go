// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/perspective-engine/internal/genai"
)

var improvePromptTmpl = template.Must(template.New("improve").Parse(`You are an experienced scientific writer tasked with refining and improving a scientific perspective article based on constructive feedback provided by an expert reviewer. Your goal is to thoughtfully incorporate the reviewer's suggestions, enhancing the manuscript's clarity, coherence, scholarly rigor, and intellectual contribution.

IMPORTANT INSTRUCTIONS:
1. Preserve all citations and the reference list exactly as they appear
2. Do not introduce scientific content that is absent from the original transcript
3. Return the complete improved manuscript, not a summary of changes

Here is the article to improve:

{{.Article}}

Here is the reviewer's feedback:

{{.Feedback}}

Here is the original transcript the article was derived from:

{{.Transcript}}
`))

// Improve revises the article according to the reviewer's feedback while
// staying within the scientific content of the transcript.
func Improve(ctx context.Context, g genai.Generator, articleText, feedback, transcript string, maxRetries int) (string, error) {
	var buf bytes.Buffer
	err := improvePromptTmpl.Execute(&buf, struct{ Article, Feedback, Transcript string }{
		Article:    articleText,
		Feedback:   feedback,
		Transcript: transcript,
	})
	if err != nil {
		return "", fmt.Errorf("rendering improvement prompt: %w", err)
	}

	out, err := genai.CompleteWithRetry(ctx, g, buf.String(), maxRetries)
	if err != nil {
		return "", fmt.Errorf("improving article: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("improving article: generation service returned no content")
	}
	return out, nil
}
