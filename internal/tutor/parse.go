package tutor

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// maxSuggestions caps every suggestion list returned to callers.
const maxSuggestions = 3

var (
	fencePattern      = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	bulletPattern     = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)
	numberingPattern  = regexp.MustCompile(`^\d+[\).\s-]*`)
	rawFallbackLength = 100
)

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// decodeStringArray accepts a JSON array and keeps only its string items.
func decodeStringArray(s string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}
	strs := lo.FilterMap(items, func(v any, _ int) (string, bool) {
		str, ok := v.(string)
		return strings.TrimSpace(str), ok && strings.TrimSpace(str) != ""
	})
	return strs, true
}

// splitLines turns free text into trimmed non-empty lines with the prefix
// pattern removed.
func splitLines(s string, prefix *regexp.Regexp) []string {
	lines := lo.Map(strings.Split(s, "\n"), func(line string, _ int) string {
		line = strings.TrimSpace(line)
		line = prefix.ReplaceAllString(line, "")
		return strings.TrimSpace(strings.Trim(line, "\"'`,[]"))
	})
	return lo.Filter(lines, func(line string, _ int) bool { return line != "" })
}

// parseStarterList is deliberately lenient: starter prompts fall back to
// bullet lines and finally to a clipped copy of the raw text.
func parseStarterList(raw string) []string {
	text := stripFences(raw)
	if text == "" {
		return nil
	}
	if items, ok := decodeStringArray(text); ok && len(items) > 0 {
		return capSuggestions(items)
	}
	if lines := splitLines(text, bulletPattern); len(lines) > 0 {
		return capSuggestions(lines)
	}
	return []string{clip(text, rawFallbackLength)}
}

// parseFollowupList accepts a JSON string array or numbered lines.
func parseFollowupList(raw string) []string {
	text := stripFences(raw)
	if text == "" {
		return nil
	}
	if items, ok := decodeStringArray(text); ok {
		return capSuggestions(items)
	}
	return capSuggestions(splitLines(text, numberingPattern))
}

func capSuggestions(items []string) []string {
	if len(items) > maxSuggestions {
		return items[:maxSuggestions]
	}
	return items
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
