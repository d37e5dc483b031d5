// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"strings"
	"unicode"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

// Record boundary markers within an efetch response. The open marker
// carries the closing angle bracket so the <PubmedArticleSet> wrapper
// element never matches as a record boundary.
const (
	recordOpen  = "<PubmedArticle>"
	recordClose = "</PubmedArticle>"
)

// ExtractRecords parses raw efetch markup into Paper records. Each
// <PubmedArticle> fragment is decoded independently so one malformed record
// cannot corrupt the extraction of its siblings; a fragment is skipped only
// when it fails to decode as a whole. Missing fields are left empty and
// rendered as sentinels at the output boundary (types.Paper.Display).
func ExtractRecords(raw string) []types.Paper {
	var papers []types.Paper
	for _, fragment := range splitRecords(raw) {
		var rec pubmedArticle
		if err := xml.Unmarshal([]byte(fragment), &rec); err != nil {
			continue
		}
		papers = append(papers, rec.toPaper())
	}
	return papers
}

// splitRecords locates each record fragment by its open/close markers.
// Records whose boundaries cannot be located are dropped.
func splitRecords(raw string) []string {
	var fragments []string
	for {
		start := strings.Index(raw, recordOpen)
		if start < 0 {
			break
		}
		rest := raw[start:]
		if end := strings.Index(rest, recordClose); end >= 0 {
			fragments = append(fragments, rest[:end+len(recordClose)])
		}
		// Resume just past the open marker so a record missing its
		// close tag cannot swallow the next sibling.
		raw = rest[len(recordOpen):]
	}
	return fragments
}

// PubMed efetch XML structures. Only the fields the pipeline consumes are
// mapped; everything else in the record is ignored by the decoder.
type pubmedArticle struct {
	XMLName         xml.Name `xml:"PubmedArticle"`
	MedlineCitation struct {
		PMID struct {
			Version string `xml:"Version,attr"`
			Value   string `xml:",chardata"`
		} `xml:"PMID"`
		Article struct {
			Journal struct {
				Title        string `xml:"Title"`
				JournalIssue struct {
					PubDate struct {
						Year        string `xml:"Year"`
						MedlineDate string `xml:"MedlineDate"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			ArticleTitle string `xml:"ArticleTitle"`
			Abstract     struct {
				Sections []abstractSection `xml:"AbstractText"`
			} `xml:"Abstract"`
			AuthorList struct {
				Authors []pubmedAuthor `xml:"Author"`
			} `xml:"AuthorList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
	} `xml:"PubmedData"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// toPaper maps a decoded record onto the pipeline's Paper shape.
func (r pubmedArticle) toPaper() types.Paper {
	art := r.MedlineCitation.Article
	return types.Paper{
		PMID:     r.pmid(),
		Title:    strings.TrimSpace(art.ArticleTitle),
		Authors:  formatAuthors(art.AuthorList.Authors),
		Year:     extractYear(art.Journal.JournalIssue.PubDate.Year, art.Journal.JournalIssue.PubDate.MedlineDate),
		Journal:  strings.TrimSpace(art.Journal.Title),
		Abstract: joinAbstract(art.Abstract.Sections),
	}
}

// pmid returns the record identifier, preferring the versioned
// MedlineCitation form over bare ArticleId entries in PubmedData.
func (r pubmedArticle) pmid() string {
	if id := strings.TrimSpace(r.MedlineCitation.PMID.Value); id != "" {
		return id
	}
	for _, aid := range r.PubmedData.ArticleIDs {
		if aid.IDType == "pubmed" {
			return strings.TrimSpace(aid.Value)
		}
	}
	return ""
}

// formatAuthors formats each author as "Last, First", "Last" when the
// forename is absent, and omits authors with neither name.
func formatAuthors(authors []pubmedAuthor) []string {
	var out []string
	for _, a := range authors {
		last := strings.TrimSpace(a.LastName)
		first := strings.TrimSpace(a.ForeName)
		switch {
		case last != "" && first != "":
			out = append(out, last+", "+first)
		case last != "":
			out = append(out, last)
		case first != "":
			out = append(out, first)
		}
	}
	return out
}

// joinAbstract concatenates abstract sections in document order. Structured
// abstracts keep their section labels ("Background: ...").
func joinAbstract(sections []abstractSection) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if label := strings.TrimSpace(s.Label); label != "" {
			text = label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// extractYear returns the PubDate year, falling back to the first four-digit
// run in a MedlineDate value like "2019 Nov-Dec".
func extractYear(year, medlineDate string) string {
	if y := strings.TrimSpace(year); y != "" {
		return y
	}
	digits := 0
	for i, r := range medlineDate {
		if unicode.IsDigit(r) {
			digits++
			if digits == 4 {
				return medlineDate[i-3 : i+1]
			}
		} else {
			digits = 0
		}
	}
	return ""
}
