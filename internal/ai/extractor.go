package ai

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// fenceRegex matches markdown code fences, with or without a language tag
var fenceRegex = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// maxSnippetLength bounds the snippet kept on a MalformedDataError
const maxSnippetLength = 2000

// ExtractArray locates the JSON array embedded in a model reply and parses it.
// The reply may be wrapped in code fences or surrounded by prose.
//
// A bracket-bounded slice that parses is always an array, so the
// ErrUnexpectedShape branch is not reached with the current slicing.
func ExtractArray(text string) ([]any, error) {
	cleaned := stripCodeFences(text)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, ErrNoStructuredData
	}
	snippet := cleaned[start : end+1]

	var data any
	if err := json.Unmarshal([]byte(snippet), &data); err != nil {
		return nil, &MalformedDataError{Snippet: truncate(snippet, maxSnippetLength), Err: err}
	}

	records, ok := data.([]any)
	if !ok {
		return nil, ErrUnexpectedShape
	}
	return records, nil
}

func stripCodeFences(s string) string {
	return fenceRegex.ReplaceAllString(s, "")
}

// truncate keeps at most n bytes of s without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
