package chunking

import (
	"regexp"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits text on runs of '.', '!' and '?', trims whitespace
// from each fragment and drops empty fragments. Order is preserved.
//
// Abbreviations and decimal numbers are not special-cased: "Mr. Smith" and
// "3.5%" both produce a boundary.
func SplitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
