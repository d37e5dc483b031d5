// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pdiddy/perspective-engine/internal/genai"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

var reviewPromptTmpl = template.Must(template.New("review").Parse(`# Instructions for Reviewing Scientific Perspective Articles
You are an expert scientific reviewer tasked with evaluating and providing feedback on a scientific perspective article. Your analysis should embody the highest standards of academic rigor while offering constructive guidance to improve the manuscript.

## Evaluation Framework
Examine how effectively the article presents forward-looking ideas and speculative models within a focused field, rather than attempting a comprehensive literature survey. Consider whether the author maintains balance while expressing personal viewpoints, and how well the article stimulates discussion and new experimental approaches. Assess the article's conceptual foundations and theoretical coherence, the accessibility of language, clarity of novel concept definitions, and explanations of specialist terminology, and how the author engages with opposing viewpoints while maintaining their perspective.

## Content Analysis
Your review should address:
- How effectively the preface (maximum 200 words) sets the stage and summarizes the key message
- Whether the perspective maintains appropriate scope and focus on a specific topical aspect
- Balance between presenting personal viewpoints and acknowledging alternative perspectives
- Use of accessible language and clear definitions of novel concepts
- Appropriate length (minimum 4,000 and maximum 5,000 words)

## Narrative Flow Analysis
Pay special attention to the flow and transitions between paragraphs. The article shows the following metrics:
- Current word count: {{.WordCount}} words
- Average paragraph length: {{printf "%.2f" .Metrics.AvgParagraphLength}} words
- Paragraph length variance: {{printf "%.2f" .Metrics.ParagraphLengthVariance}}
- Average transition quality between paragraphs: {{printf "%.2f" .Metrics.AvgTransitionQuality}} (scale 0-1)
- Transition word density: {{printf "%.2f" .Metrics.TransitionDensity}} per paragraph

Provide specific feedback on how to improve narrative flow and paragraph transitions. Look for abrupt topic changes, disconnected ideas, and opportunities to create more coherent progression of thought.

## Feedback Approach
Maintain a tone that is rigorous yet constructive, scholarly yet accessible, and critical yet respectful of the author's intellectual contributions.

Respond with a JSON object and nothing else, with this structure: "overall_assessment" (object with "scholarly_rigor", "narrative_coherence", "publication_readiness", each 0-1), "narrative_flow_assessment" (object with "paragraph_transitions", "logical_progression", "thematic_consistency", "section_balance", each 0-1), "major_strengths" (array of strings), "areas_for_improvement" (array of strings), "specific_transition_feedback" (array of objects with "location", "issue", "suggestion"), "content_recommendations" (object with "conceptual_framework", "terminology", "balancing_perspectives", "supporting_evidence"), "summary_evaluation" (string, 250-300 words).

Here is the article to review:

{{.Article}}

Here is the original transcript that was used to create this article:

{{.Transcript}}
`))

// ReviewResult is the outcome of a review call. Structured is nil when the
// service's output did not decode as an ArticleReview; Raw always holds the
// verbatim payload. The review path is deliberately lenient, unlike the
// strict ranking path: an unparseable review is still useful feedback.
type ReviewResult struct {
	Structured *types.ArticleReview
	Raw        string
}

// FeedbackText returns the review in the form the improvement stage feeds
// back to the generation service.
func (r ReviewResult) FeedbackText() string {
	if r.Structured == nil {
		return r.Raw
	}
	data, err := json.MarshalIndent(r.Structured, "", "  ")
	if err != nil {
		return r.Raw
	}
	return string(data)
}

// Review evaluates the article against the transcript, injecting the
// narrative metrics as contextual signal into the prompt.
func Review(ctx context.Context, g genai.Generator, articleText, transcript string, metrics types.NarrativeMetrics, maxRetries int) (ReviewResult, error) {
	var buf bytes.Buffer
	err := reviewPromptTmpl.Execute(&buf, struct {
		WordCount  int
		Metrics    types.NarrativeMetrics
		Article    string
		Transcript string
	}{
		WordCount:  len(strings.Fields(articleText)),
		Metrics:    metrics,
		Article:    articleText,
		Transcript: transcript,
	})
	if err != nil {
		return ReviewResult{}, fmt.Errorf("rendering review prompt: %w", err)
	}

	raw, err := genai.CompleteWithRetry(ctx, g, buf.String(), maxRetries)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("reviewing article: %w", err)
	}

	result := ReviewResult{Raw: raw}
	var review types.ArticleReview
	if jerr := json.Unmarshal([]byte(stripFences(raw)), &review); jerr == nil {
		result.Structured = &review
	}
	return result, nil
}

// ReviewToFile runs Review, persists the feedback to outPath (the decoded
// review as JSON, or the raw payload when decoding failed) and the metrics
// to a sibling *_narrative_analysis.json artifact alongside it.
func ReviewToFile(ctx context.Context, g genai.Generator, articleText, transcript string, metrics types.NarrativeMetrics, maxRetries int, outPath string) (ReviewResult, error) {
	result, err := Review(ctx, g, articleText, transcript, metrics, maxRetries)
	if err != nil {
		return ReviewResult{}, err
	}

	if err := os.WriteFile(outPath, []byte(result.FeedbackText()), 0o644); err != nil {
		return ReviewResult{}, fmt.Errorf("writing review feedback: %w", err)
	}

	metricsData, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return ReviewResult{}, fmt.Errorf("marshaling narrative metrics: %w", err)
	}
	if err := os.WriteFile(MetricsPath(outPath), metricsData, 0o644); err != nil {
		return ReviewResult{}, fmt.Errorf("writing narrative metrics: %w", err)
	}
	return result, nil
}

// MetricsPath returns the narrative-metrics artifact path that sits beside a
// review artifact: <dir>/<base>_narrative_analysis.json.
func MetricsPath(reviewPath string) string {
	dir := filepath.Dir(reviewPath)
	base := filepath.Base(reviewPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, base+"_narrative_analysis.json")
}

// stripFences removes a surrounding Markdown code fence from a JSON payload.
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
