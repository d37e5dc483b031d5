// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the perspective-engine
// pipeline: bibliographic records, narrative metrics, citation extraction
// results, and per-stage configuration.
package types

import "strings"

// Display sentinels used in persisted artifacts when a field is absent.
// Inside the pipeline absence is represented by the zero value; the
// sentinel appears only at the output boundary (see Paper.Display).
const (
	PMIDNotAvailable     = "not available"
	TitleNotAvailable    = "Title not available"
	YearNotAvailable     = "Year not available"
	JournalNotAvailable  = "Journal not available"
	AbstractNotAvailable = "Abstract not available"
)

// Paper is one bibliographic record extracted from a fetched literature
// batch. Fields left empty by the extractor mean the source record did not
// carry them.
type Paper struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Authors lists authors in source order, formatted "Last, First"
	// ("Last" alone when no forename is recorded). May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year as a string.
	Year string `json:"year" yaml:"year"`

	// Journal is the journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Abstract is the article abstract. Multi-part structured abstracts
	// are concatenated with their section labels.
	Abstract string `json:"abstract" yaml:"abstract"`
}

// Display returns a copy with empty fields replaced by the human-readable
// sentinels. Persisted pools and generation prompts use the display form so
// downstream consumers check sentinels, never nulls.
func (p Paper) Display() Paper {
	out := p
	if strings.TrimSpace(out.PMID) == "" {
		out.PMID = PMIDNotAvailable
	}
	if strings.TrimSpace(out.Title) == "" {
		out.Title = TitleNotAvailable
	}
	if out.Authors == nil {
		out.Authors = []string{}
	}
	if strings.TrimSpace(out.Year) == "" {
		out.Year = YearNotAvailable
	}
	if strings.TrimSpace(out.Journal) == "" {
		out.Journal = JournalNotAvailable
	}
	if strings.TrimSpace(out.Abstract) == "" {
		out.Abstract = AbstractNotAvailable
	}
	return out
}

// DisplayAll returns display-form copies of a paper pool, preserving order.
func DisplayAll(papers []Paper) []Paper {
	out := make([]Paper, len(papers))
	for i, p := range papers {
		out[i] = p.Display()
	}
	return out
}
