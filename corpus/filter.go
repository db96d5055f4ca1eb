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
)

// codeTokens mark a first token that indicates a code fragment leaked into
// the extracted text.
var codeTokens = map[string]bool{
	"{": true, "}": true, "=": true, "//": true, "import": true,
	"def": true, "class": true, "return": true, "from": true, "if": true,
	"for": true, "while": true, "try": true, "except": true, "with": true,
	"print": true, "self": true, "#": true, `"""`: true, "'''": true,
	"async": true, "await": true, "const": true, "let": true, "var": true,
	"function": true, "export": true, "module": true, "result": true,
	"response": true, "model": true, "config": true, "data": true,
	"json": true, "xml": true, "html": true, "http": true, "https": true,
	"api": true, "protection_level": true, "details": true, "markdown": true,
}

// headingKeywords are table-of-contents words as they appear after PDF
// extraction of RTL text (character order reversed by the extractor).
var headingKeywords = map[string]bool{
	"תמישר": true, "תואלבט": true, "םיניינע": true, "ןכות": true,
}

var (
	rtlCharRe      = regexp.MustCompile(`[\x{0590}-\x{05FF}]`)
	anyAlphaRe     = regexp.MustCompile(`[a-zA-Z\x{0590}-\x{05FF}]`)
	codePunctRe    = regexp.MustCompile(`[=(){}\[\];]`)
	numericWordRe  = regexp.MustCompile(`^[\d.]+$`)
	tokenScrubRe   = regexp.MustCompile(`[^\w#{}=/"'.]`)
	probNotationRe = regexp.MustCompile(`P\([^)]+\)`)
	decimalRe      = regexp.MustCompile(`\d+\.\d+`)
	sectionNumRe   = regexp.MustCompile(`\d+\.\d+\.\d+`)
)

// noiseSubstrings flag technical references and extraction artifacts.
var noiseSubstrings = []string{
	".json", ".py", ".js", "API ", "plugin",
	"http://", "https://", "google.com", ".com/",
	"localhost", "W₁", "h₁", "ht−1",
}

// IsValid decides whether a paragraph is a usable retrieval candidate.
// All checks are independent rejections; the paragraph passes only when
// none of them fire.
func IsValid(openingSentence, fullText string) bool {
	_ = fullText // all current signals come from the opening sentence

	opening := strings.TrimSpace(openingSentence)
	firstLine := firstNonEmptyLine(opening)
	words := strings.Fields(firstLine)

	if !hasRTL(firstLine) {
		return false
	}
	if len(words) < 8 {
		return false
	}
	if isCodeFragment(opening) {
		return false
	}
	if isHeadingOrTOC(opening) {
		return false
	}
	// Repetitive content (tables, diagrams).
	if uniqueWordRatio(words) < 0.4 {
		return false
	}
	if hasFormulaOrNoise(firstLine) {
		return false
	}
	// The opening line must be mostly RTL script.
	if rtlRatio(firstLine) < 0.4 {
		return false
	}
	return true
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return strings.TrimSpace(text)
}

func hasRTL(text string) bool {
	return rtlCharRe.MatchString(text)
}

// rtlRatio is the fraction of alphabetic characters in the RTL block.
func rtlRatio(text string) float64 {
	rtl := len(rtlCharRe.FindAllString(text, -1))
	alpha := len(anyAlphaRe.FindAllString(text, -1))
	if alpha == 0 {
		return 0
	}
	return float64(rtl) / float64(alpha)
}

func isCodeFragment(opening string) bool {
	firstLine := firstNonEmptyLine(opening)
	fields := strings.Fields(firstLine)
	firstToken := ""
	if len(fields) > 0 {
		firstToken = fields[0]
	}
	clean := tokenScrubRe.ReplaceAllString(firstToken, "")
	if codeTokens[strings.ToLower(clean)] || codeTokens[clean] {
		return true
	}
	// Code punctuation without any RTL content.
	if !hasRTL(firstLine) && codePunctRe.MatchString(firstLine) {
		return true
	}
	return false
}

func isHeadingOrTOC(opening string) bool {
	firstLine := firstNonEmptyLine(opening)
	words := strings.Fields(firstLine)
	if len(words) == 0 {
		return false
	}
	// Number + short title pattern (e.g. "8.7 Summary").
	if len(words) <= 5 && numericWordRe.MatchString(words[0]) {
		return true
	}
	for _, w := range words {
		if headingKeywords[w] {
			return true
		}
	}
	return false
}

func uniqueWordRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	return float64(len(unique)) / float64(len(words))
}

func hasFormulaOrNoise(text string) bool {
	if strings.Count(text, "=") >= 2 {
		return true
	}
	if probNotationRe.MatchString(text) {
		return true
	}
	// Many decimal numbers: graph data or tables.
	if len(decimalRe.FindAllString(text, -1)) >= 3 {
		return true
	}
	// PDF extraction artifacts.
	if strings.Contains(text, "(cid:") {
		return true
	}
	for _, s := range noiseSubstrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	// Nested section numbering (5.2.1 and deeper).
	if sectionNumRe.MatchString(text) {
		return true
	}
	if strings.Count(text, "(")+strings.Count(text, ")") >= 6 {
		return true
	}
	return false
}
