// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ReferenceAPA is a single supporting reference formatted in APA style.
type ReferenceAPA struct {
	// CitationKey is the optional identifier from the original record pool
	// (the PMID for PubMed records).
	CitationKey string `json:"citation_key,omitempty" yaml:"citation_key,omitempty"`

	// InText is the APA in-text citation, e.g. "(Smith, 2023)".
	InText string `json:"in_text" yaml:"in_text"`

	// FullReference is the APA reference-list entry.
	FullReference string `json:"full_reference" yaml:"full_reference"`
}

// KeySentenceExtraction pairs one verbatim manuscript sentence with its
// ranked supporting references (between one and three).
type KeySentenceExtraction struct {
	// VerbatimContext is the key sentence copied exactly from the manuscript.
	VerbatimContext string `json:"verbatim_context" yaml:"verbatim_context"`

	// References lists the ranked supporting references, most relevant first.
	References []ReferenceAPA `json:"references" yaml:"references"`
}

// StudyExtractionResult is the validated output of the reference ranking
// stage: every significant claim in the manuscript with its supporting
// records from the pool.
type StudyExtractionResult struct {
	KeySentences []KeySentenceExtraction `json:"key_sentences" yaml:"key_sentences"`
}
