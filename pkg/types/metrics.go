// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NarrativeMetrics quantifies the narrative flow of a manuscript. It is a
// value object recomputed fresh on every analysis call; consumers never
// mutate it in place.
type NarrativeMetrics struct {
	// TransitionDensity is the count of transition-vocabulary words in the
	// text divided by the paragraph count.
	TransitionDensity float64 `json:"transition_density" yaml:"transition_density"`

	// AvgSentenceLength is the mean sentence length in words.
	AvgSentenceLength float64 `json:"avg_sentence_length" yaml:"avg_sentence_length"`

	// SentenceLengthVariance is the population variance of sentence lengths.
	SentenceLengthVariance float64 `json:"sentence_length_variance" yaml:"sentence_length_variance"`

	// AvgParagraphLength is the mean paragraph length in words.
	AvgParagraphLength float64 `json:"avg_paragraph_length" yaml:"avg_paragraph_length"`

	// ParagraphLengthVariance is the population variance of paragraph lengths.
	ParagraphLengthVariance float64 `json:"paragraph_length_variance" yaml:"paragraph_length_variance"`

	// ParagraphTransitionScores holds one score in {0, 0.5, 1.0} per
	// paragraph boundary: len == max(0, paragraphs-1).
	ParagraphTransitionScores []float64 `json:"paragraph_transition_scores" yaml:"paragraph_transition_scores"`

	// AvgTransitionQuality is the mean boundary score, 0 when the text has
	// fewer than two paragraphs.
	AvgTransitionQuality float64 `json:"avg_transition_quality" yaml:"avg_transition_quality"`
}
