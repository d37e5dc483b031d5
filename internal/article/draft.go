// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article holds the manuscript-facing generation stages: drafting a
// perspective article from a transcript, inserting citation markers,
// reviewing, and improving. The writing decisions belong to the generation
// service; this package constructs the instructions and handles artifacts.
package article

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/perspective-engine/internal/genai"
)

var draftPromptTmpl = template.Must(template.New("draft").Parse(`Please convert the provided transcript into a scientific perspective article about the topic: {{.Topic}} following the guidelines below:

IMPORTANT INSTRUCTIONS:
CRITICAL: Include ALL scientific content from the transcript.
1. Maintain the personal perspective, while adhering to the scientific content.
2. DO NOT add any new scientific content, facts, or research that is not present in the transcript
3. Only restructure and format the existing content to fit a perspective paper format
4. You may clarify concepts mentioned in the transcript, but do not introduce topics not discussed
5. No bullet points.

Below are some general guidelines for perspective articles:
Perspective articles serve as a platform for authors to discuss models and ideas from a personal viewpoint. They are more forward-looking and speculative than review articles, may take a narrower field of view, can present opinionated viewpoints while maintaining balance, and are intended to stimulate discussion and new experimental approaches.

Format requirements:
Begin with a 200-word maximum preface that sets the stage and ends with a summary sentence.
Target word count: minimum 4,000 and maximum 5,000 words.

Content guidelines:
Focus on one topical aspect of a field rather than providing comprehensive literature surveys.
Can present controversial viewpoints but should briefly indicate opposing perspectives.
Use accessible language, define novel concepts, and explain specialist terminology.

{{.Transcript}}
`))

// Draft converts an interview transcript into a perspective article about
// topic. The service's text is returned verbatim; an empty result is an error.
func Draft(ctx context.Context, g genai.Generator, transcript, topic string, maxRetries int) (string, error) {
	var buf bytes.Buffer
	err := draftPromptTmpl.Execute(&buf, struct{ Topic, Transcript string }{Topic: topic, Transcript: transcript})
	if err != nil {
		return "", fmt.Errorf("rendering draft prompt: %w", err)
	}

	out, err := genai.CompleteWithRetry(ctx, g, buf.String(), maxRetries)
	if err != nil {
		return "", fmt.Errorf("drafting article: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("drafting article: generation service returned no content")
	}
	return out, nil
}
