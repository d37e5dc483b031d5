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

var markPromptTmpl = template.Must(template.New("mark").Parse(`You will be provided with a scientific manuscript. Your task is to carefully read the provided text and insert "[REF]" immediately following claims or statements that clearly require a citation. Do not make any modifications to the wording, punctuation, or formatting of the original text.

Example:
Original:
"Recent studies suggest a significant correlation between sleep and memory consolidation."

Modified:
"Recent studies suggest a significant correlation between sleep and memory consolidation [REF]."

Here is the scientific manuscript:

{{.Article}}
`))

// Mark inserts [REF] markers after claims that need citations, leaving the
// wording untouched. The markers are resolved later by the citation matcher.
func Mark(ctx context.Context, g genai.Generator, articleText string, maxRetries int) (string, error) {
	var buf bytes.Buffer
	if err := markPromptTmpl.Execute(&buf, struct{ Article string }{Article: articleText}); err != nil {
		return "", fmt.Errorf("rendering marking prompt: %w", err)
	}

	out, err := genai.CompleteWithRetry(ctx, g, buf.String(), maxRetries)
	if err != nil {
		return "", fmt.Errorf("marking article: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("marking article: generation service returned no content")
	}
	return out, nil
}
