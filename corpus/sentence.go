// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpus

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviations are English title/Latin abbreviations common in mixed-script
// academic text. A period that closes one of these is not a sentence boundary.
var abbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "prof": true,
	"e.g": true, "i.e": true, "etc": true, "vs": true, "al": true,
	"fig": true, "eq": true, "sec": true, "ch": true, "no": true,
	"vol": true, "st": true, "jr": true, "sr": true,
}

var (
	// Period rendered at visual line start followed by right-to-left script:
	// in RTL text this is the logical end of the previous sentence.
	rtlBoundaryRe  = regexp.MustCompile(`\n\.[\x{0590}-\x{05FF}\s]`)
	abbrevTailRe   = regexp.MustCompile(`(\w+(?:\.\w+)*)\.$`)
	collapsedAbbrs = map[string]bool{"eg": true, "ie": true}
)

// FirstSentence extracts the first sentence of a paragraph.
//
// Strategy, tried in order:
//  1. RTL boundary — a sentence-ending period rendered at line start
//     followed by right-to-left content; accepted when the candidate has
//     at least 5 words.
//  2. Character scan of the first three lines for `.`, `!`, `?` followed by
//     whitespace, suppressing ellipses, decimals, and known abbreviations.
//  3. Fallback — the first non-empty line verbatim.
//
// The result is always collapsed to a single line. Empty input returns "".
func FirstSentence(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(text)

	// Strategy 1: RTL period at line start.
	if loc := rtlBoundaryRe.FindStringIndex(text); loc != nil {
		// Include content up through the period.
		end := loc[0] + 2
		single := collapseWhitespace(text[:end])
		if len(strings.Fields(single)) >= 5 {
			return single
		}
	}

	// Strategy 2: char-by-char walk within the first 3 lines.
	if s, ok := scanForBoundary(firstLines(text, 3)); ok {
		return s
	}

	// Strategy 3: no boundary found, return the first line only.
	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if firstLine != "" {
		return firstLine
	}
	return text
}

func scanForBoundary(chunk string) (string, bool) {
	runes := []rune(chunk)
	var current strings.Builder

	for i, ch := range runes {
		current.WriteRune(ch)

		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]

		// Ellipsis.
		if ch == '.' && (next == '.' || (i > 0 && runes[i-1] == '.')) {
			continue
		}
		// Decimal: digit.digit
		if ch == '.' && i > 0 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(next) {
			continue
		}
		if ch == '.' && isAbbreviation(current.String()) {
			continue
		}

		// Sentence boundary: punctuation followed by whitespace.
		if next == ' ' || next == '\n' || next == '\t' || next == '\r' {
			return collapseWhitespace(current.String()), true
		}
	}

	return "", false
}

// isAbbreviation reports whether the trailing period of textSoFar closes a
// known abbreviation rather than a sentence.
func isAbbreviation(textSoFar string) bool {
	match := abbrevTailRe.FindStringSubmatch(textSoFar)
	if match == nil {
		return false
	}
	word := strings.ToLower(match[1])
	if abbreviations[word] {
		return true
	}
	if strings.Contains(word, ".") {
		base := strings.ReplaceAll(word, ".", "")
		if collapsedAbbrs[base] {
			return true
		}
	}
	return false
}

func firstLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
