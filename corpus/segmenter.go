package corpus

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMinWords is the minimum word count for a segmented paragraph.
const DefaultMinWords = 15

var (
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
	tocPrefixRe = regexp.MustCompile(`^[\d.]+\s`)
)

// Segment splits concatenated page text into content paragraphs, dropping
// structural noise. Paragraphs are split on blank-line boundaries; a
// paragraph survives only if it has at least minWords words, is not a
// numbered short line (table-of-contents style), and has an alphabetic
// character ratio of at least 0.4 (tables and formulas fall below this).
//
// Deterministic given identical input; no side effects.
func Segment(fullText string, minWords int) []string {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	raw := blankLineRe.Split(fullText, -1)
	var paragraphs []string

	for _, p := range raw {
		p = strings.TrimSpace(p)
		words := strings.Fields(p)
		if len(words) < minWords {
			continue
		}
		// TOC-style line: numeric/dotted prefix with little text behind it.
		if tocPrefixRe.MatchString(p) && len(words) < 10 {
			continue
		}
		if alphaRatio(p) < 0.4 {
			continue
		}
		paragraphs = append(paragraphs, p)
	}

	return paragraphs
}

// alphaRatio is the fraction of characters that are letters.
func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	total := 0
	letters := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(total)
}
