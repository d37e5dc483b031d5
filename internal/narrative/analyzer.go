// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package narrative computes quantitative flow metrics over manuscript text:
// transition-word density, sentence and paragraph length statistics, and a
// per-boundary transition quality score. Analysis is a pure function of the
// text; the review stage injects the metrics into its prompt.
package narrative

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

// transitionWords is the fixed vocabulary treated as signaling a rhetorical
// shift between clauses.
var transitionWords = map[string]bool{
	"moreover":     true,
	"furthermore":  true,
	"consequently": true,
	"therefore":    true,
	"however":      true,
	"nevertheless": true,
	"indeed":       true,
	"specifically": true,
	"conversely":   true,
	"similarly":    true,
	"likewise":     true,
	"instead":      true,
	"nonetheless":  true,
	"meanwhile":    true,
	"subsequently": true,
	"ultimately":   true,
}

// paragraphSplit matches blank-line paragraph boundaries.
var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)

// Analyze computes narrative metrics for text. It is deterministic and keeps
// no state: the same text always yields identical metrics. All denominators
// are floored at 1, and a text with fewer than two paragraphs has no
// boundary scores and a transition quality of 0.
func Analyze(text string) types.NarrativeMetrics {
	paragraphs := splitParagraphs(text)
	sentences := splitSentences(text)

	transitionCount := 0
	for _, w := range words(text) {
		if transitionWords[strings.ToLower(w)] {
			transitionCount++
		}
	}

	sentenceLengths := make([]int, len(sentences))
	for i, s := range sentences {
		sentenceLengths[i] = len(words(s))
	}
	paragraphLengths := make([]int, len(paragraphs))
	for i, p := range paragraphs {
		paragraphLengths[i] = len(words(p))
	}

	scores := transitionScores(paragraphs)

	avgQuality := 0.0
	if len(scores) > 0 {
		avgQuality = mean(scores)
	}

	return types.NarrativeMetrics{
		TransitionDensity:         float64(transitionCount) / float64(floor1(len(paragraphs))),
		AvgSentenceLength:         meanInt(sentenceLengths),
		SentenceLengthVariance:    variance(sentenceLengths),
		AvgParagraphLength:        meanInt(paragraphLengths),
		ParagraphLengthVariance:   variance(paragraphLengths),
		ParagraphTransitionScores: scores,
		AvgTransitionQuality:      avgQuality,
	}
}

// transitionScores scores each adjacent paragraph boundary: +0.5 when one of
// the first three words of the following paragraph's opening sentence is a
// transition word, +0.5 when the two sentences flanking the boundary share a
// content word.
func transitionScores(paragraphs []string) []float64 {
	scores := make([]float64, 0, max(0, len(paragraphs)-1))
	for i := 1; i < len(paragraphs); i++ {
		prevLast := lastSentence(paragraphs[i-1])
		currFirst := firstSentence(paragraphs[i])

		score := 0.0

		first := words(currFirst)
		if len(first) > 3 {
			first = first[:3]
		}
		for _, w := range first {
			if transitionWords[strings.ToLower(w)] {
				score += 0.5
				break
			}
		}

		if sharesContentWord(prevLast, currFirst) {
			score += 0.5
		}

		scores = append(scores, score)
	}
	return scores
}

// sharesContentWord reports whether the two sentences have a significant
// word in common: alphabetic, longer than four letters, case-insensitive.
func sharesContentWord(a, b string) bool {
	set := contentWords(a)
	for w := range contentWords(b) {
		if set[w] {
			return true
		}
	}
	return false
}

func contentWords(sentence string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range words(sentence) {
		if len([]rune(w)) > 4 && isAlpha(w) {
			set[strings.ToLower(w)] = true
		}
	}
	return set
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(w) > 0
}

// splitParagraphs splits on blank-line boundaries, discarding empty paragraphs.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences segments text on terminal punctuation (., !, ?) followed by
// whitespace or end of text. Runs of terminators ("...", "?!") end a single
// sentence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Absorb the full terminator run.
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		s := strings.TrimSpace(string(runes[start : i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func firstSentence(paragraph string) string {
	s := splitSentences(paragraph)
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func lastSentence(paragraph string) string {
	s := splitSentences(paragraph)
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// words returns the maximal runs of letters, digits, and internal
// apostrophes in text.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func floor1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func meanInt(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(floor1(len(values)))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(floor1(len(values)))
}

// variance is the population variance: the mean squared deviation.
func variance(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	m := meanInt(values)
	sum := 0.0
	for _, v := range values {
		d := float64(v) - m
		sum += d * d
	}
	return sum / float64(len(values))
}
