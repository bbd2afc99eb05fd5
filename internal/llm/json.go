package llm

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```(?:json|JSON)?[ \t]*\r?\n?")

// StripCodeFences removes markdown code fences wherever they appear.
func StripCodeFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ObjectSlice strips fences and returns the substring from the first '{'
// to the last '}'. Replies without such a span are returned fence-stripped
// so the caller's JSON decode reports the failure.
func ObjectSlice(text string) string {
	cleaned := StripCodeFences(text)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return cleaned
	}
	return cleaned[start : end+1]
}
