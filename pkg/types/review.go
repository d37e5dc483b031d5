// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OverallAssessment rates the manuscript on 0-1 scales.
type OverallAssessment struct {
	ScholarlyRigor       float64 `json:"scholarly_rigor" yaml:"scholarly_rigor"`
	NarrativeCoherence   float64 `json:"narrative_coherence" yaml:"narrative_coherence"`
	PublicationReadiness float64 `json:"publication_readiness" yaml:"publication_readiness"`
}

// NarrativeFlowAssessment rates flow-related qualities on 0-1 scales.
type NarrativeFlowAssessment struct {
	ParagraphTransitions float64 `json:"paragraph_transitions" yaml:"paragraph_transitions"`
	LogicalProgression   float64 `json:"logical_progression" yaml:"logical_progression"`
	ThematicConsistency  float64 `json:"thematic_consistency" yaml:"thematic_consistency"`
	SectionBalance       float64 `json:"section_balance" yaml:"section_balance"`
}

// TransitionFeedback flags one problematic paragraph transition.
type TransitionFeedback struct {
	Location   string `json:"location" yaml:"location"`
	Issue      string `json:"issue" yaml:"issue"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// ContentRecommendations holds the reviewer's content-level recommendations.
type ContentRecommendations struct {
	ConceptualFramework   string `json:"conceptual_framework" yaml:"conceptual_framework"`
	Terminology           string `json:"terminology" yaml:"terminology"`
	BalancingPerspectives string `json:"balancing_perspectives" yaml:"balancing_perspectives"`
	SupportingEvidence    string `json:"supporting_evidence" yaml:"supporting_evidence"`
}

// ArticleReview is the structured review produced by the review stage. The
// review path is lenient: when the generation service returns something that
// does not decode into this shape, the raw text is persisted instead.
type ArticleReview struct {
	OverallAssessment          OverallAssessment       `json:"overall_assessment" yaml:"overall_assessment"`
	NarrativeFlowAssessment    NarrativeFlowAssessment `json:"narrative_flow_assessment" yaml:"narrative_flow_assessment"`
	MajorStrengths             []string                `json:"major_strengths" yaml:"major_strengths"`
	AreasForImprovement        []string                `json:"areas_for_improvement" yaml:"areas_for_improvement"`
	SpecificTransitionFeedback []TransitionFeedback    `json:"specific_transition_feedback" yaml:"specific_transition_feedback"`
	ContentRecommendations     ContentRecommendations  `json:"content_recommendations" yaml:"content_recommendations"`
	SummaryEvaluation          string                  `json:"summary_evaluation" yaml:"summary_evaluation"`
}
