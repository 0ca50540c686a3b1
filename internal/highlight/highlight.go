// Package highlight marks prompt keywords with category colors.
package highlight

import (
	"slices"
	"strings"
)

// NoColor is the color index of plain, unhighlighted text.
const NoColor = -1

// Category is a family of keywords that share one color.
type Category struct {
	Name     string
	Patterns []string
}

// Categories is ordered; a category's position is its color index.
var Categories = []Category{
	{Name: "summarize", Patterns: []string{"summarize", "summary"}},
	{Name: "explain", Patterns: []string{"explain", "what", "why", "how"}},
	{Name: "create", Patterns: []string{"create", "generate", "make"}},
	{Name: "write", Patterns: []string{"essay", "write", "article"}},
	{Name: "outline", Patterns: []string{"study guide", "outline"}},
	{Name: "key points", Patterns: []string{"key points", "main", "important"}},
}

// Palette holds one hex color per category.
var Palette = []string{
	"#FF9696",
	"#96C8FF",
	"#96FF96",
	"#FFC896",
	"#C896FF",
	"#FFFF96",
}

// Color returns the palette entry for a color index, wrapping around.
// NoColor yields "".
func Color(index int) string {
	if index < 0 {
		return ""
	}
	return Palette[index%len(Palette)]
}

// Span is a highlighted byte range [Start, End) of the input.
type Span struct {
	Start      int
	End        int
	ColorIndex int
}

// Run is a contiguous piece of the input with one color.
type Run struct {
	Text       string
	ColorIndex int
}

// Spans finds every case-insensitive keyword occurrence and keeps the
// non-overlapping ones, ordered by Start. When matches overlap the one
// starting first wins; equal starts go to the earlier category and pattern.
func Spans(text string) []Span {
	if text == "" {
		return nil
	}
	lower := asciiLower(text)

	var found []Span
	for ci, cat := range Categories {
		for _, p := range cat.Patterns {
			for off := 0; off < len(lower); {
				i := strings.Index(lower[off:], p)
				if i < 0 {
					break
				}
				start := off + i
				found = append(found, Span{Start: start, End: start + len(p), ColorIndex: ci})
				off = start + 1
			}
		}
	}

	slices.SortStableFunc(found, func(a, b Span) int { return a.Start - b.Start })

	kept := found[:0]
	end := 0
	for _, s := range found {
		if s.Start < end {
			continue
		}
		kept = append(kept, s)
		end = s.End
	}
	return kept
}

// Highlight splits text into alternating plain and colored runs. Joining the
// run texts reproduces text exactly.
func Highlight(text string) []Run {
	var runs []Run
	pos := 0
	for _, s := range Spans(text) {
		if s.Start > pos {
			runs = append(runs, Run{Text: text[pos:s.Start], ColorIndex: NoColor})
		}
		runs = append(runs, Run{Text: text[s.Start:s.End], ColorIndex: s.ColorIndex})
		pos = s.End
	}
	if pos < len(text) {
		runs = append(runs, Run{Text: text[pos:], ColorIndex: NoColor})
	}
	return runs
}

// asciiLower folds ASCII letters only so byte offsets stay aligned with the
// original text. All patterns are ASCII.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
