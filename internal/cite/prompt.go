// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

// matchPromptTmpl instructs the generation service to resolve each [REF]
// marker against the provided record pool. Matching decisions are made by
// the service; this side only constructs the instruction and validates that
// something came back.
var matchPromptTmpl = template.Must(template.New("match").Parse(`You will receive a JSON list of bibliographic references. Your task is to accurately match and allocate the references from this list to each "[REF]" marker previously inserted into the manuscript. Ensure that each inserted "[REF]" is associated with the most appropriate reference from the provided list, carefully considering the context and relevance of each reference to the statement it supports. Only use references provided in the list. If no matching reference is found for a particular "[REF]" marker, leave it as "[REF not found]". The citations should be formatted in APA Style with in-text citations and a reference list appended to the manuscript.

Here is the manuscript with [REF] markers:

{{.Manuscript}}

Here are the available references (JSON format):

{{.References}}
`))

// rankPromptTmpl instructs the generation service to extract verbatim key
// sentences and rank up to three supporting references per sentence,
// responding as a JSON object conforming to StudyExtractionResult.
var rankPromptTmpl = template.Must(template.New("rank").Parse(`You will analyze a manuscript text to identify ALL key sentences stating research findings, claims, or conclusions. For each key sentence you identify, select the most appropriate references from the provided JSON list that best support that sentence.

For each key sentence, you MUST:
1. Extract the EXACT verbatim sentence from the manuscript without any modifications
2. Rank up to 3 references from the provided list that best support this sentence - include only the most relevant references
3. Format each reference in APA style for in-text citation and for the reference list

Here is the manuscript text to analyze:

{{.Manuscript}}

Here are the available references (JSON format):

{{.References}}

IMPORTANT REQUIREMENTS:
1. Be THOROUGH and COMPREHENSIVE - extract ALL significant claims, findings, and research statements throughout the entire manuscript
2. Include up to a MAXIMUM of 3 references per sentence, but use fewer (even just 1) if one reference is clearly the best match
3. Copy the sentences EXACTLY as they appear in the manuscript - do not paraphrase or modify them in any way
4. All references must come from the provided JSON list
5. Set each reference's "citation_key" to the pmid of the record it came from

Respond with a JSON object and nothing else. The object must have a "key_sentences" array; each element has "verbatim_context" (string), and "references" (array of 1-3 objects with "citation_key", "in_text", and "full_reference").

Example response:
{"key_sentences": [{"verbatim_context": "Sleep strongly modulates memory consolidation.", "references": [{"citation_key": "12345678", "in_text": "(Smith & Doe, 2020)", "full_reference": "Smith, J., & Doe, A. (2020). Sleep and memory consolidation: A review. Journal of Sleep Research, 29(2), 101-115."}]}]}
`))

// promptData feeds both templates.
type promptData struct {
	Manuscript string
	References string
}

func renderPrompt(tmpl *template.Template, manuscript string, pool []types.Paper) (string, error) {
	refs, err := poolJSON(pool)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Manuscript: manuscript, References: refs}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// poolJSON serializes the pool in display form, the same shape the pool
// artifact on disk has.
func poolJSON(pool []types.Paper) (string, error) {
	data, err := json.MarshalIndent(types.DisplayAll(pool), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling reference pool: %w", err)
	}
	return string(data), nil
}
