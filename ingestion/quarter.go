package ingestion

import "regexp"

var quarterPattern = regexp.MustCompile(`Q[0-9] [0-9]{4}`)

// FindQuarter returns the first fiscal-quarter marker in text, such as
// "Q1 2024". Later markers are ignored.
func FindQuarter(text string) (string, bool) {
	match := quarterPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}
