package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpans_Basic(t *testing.T) {
	spans := Spans("Please SUMMARIZE and explain")
	assert.Equal(t, []Span{
		{Start: 7, End: 16, ColorIndex: 0},
		{Start: 21, End: 28, ColorIndex: 1},
	}, spans)
}

func TestSpans_Empty(t *testing.T) {
	assert.Empty(t, Spans(""))
	assert.Empty(t, Spans("nothing to see"))
}

func TestSpans_SubstringMatches(t *testing.T) {
	spans := Spans("show me key points")
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Start: 1, End: 4, ColorIndex: 1}, spans[0], "how inside show")
	assert.Equal(t, Span{Start: 8, End: 18, ColorIndex: 5}, spans[1])
}

func TestSpans_OverlapDiscardsLaterMatch(t *testing.T) {
	// "how" [1,4) and "what" [3,7) overlap; the earlier start wins.
	assert.Equal(t, []Span{{1, 4, 1}}, Spans("showhat"))

	assert.Equal(t, []Span{{0, 3, 1}, {3, 6, 1}}, Spans("whyhow"), "adjacent matches both survive")
	assert.Equal(t, []Span{{0, 11, 4}, {12, 19, 4}}, Spans("study guide outline"))
	assert.Equal(t, []Span{{0, 5, 3}, {6, 9, 1}}, Spans("write how"))
}

func TestSpans_NeverOverlap(t *testing.T) {
	inputs := []string{
		"summarize the summary",
		"how to make a whatnot",
		"explain what the main important key points are",
		"generatewrite essayoutline",
		"howhowhow",
	}
	for _, in := range inputs {
		spans := Spans(in)
		for i := 1; i < len(spans); i++ {
			assert.LessOrEqual(t, spans[i-1].End, spans[i].Start, in)
			assert.Less(t, spans[i-1].Start, spans[i].Start, in)
		}
	}
}

func TestHighlight_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"Explain how to create an outline, then summarize.",
		"naïve WHY é how",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, r := range Highlight(in) {
			b.WriteString(r.Text)
		}
		assert.Equal(t, in, b.String())
	}
}

func TestHighlight_Runs(t *testing.T) {
	runs := Highlight("Explain it, then summarize")
	assert.Equal(t, []Run{
		{Text: "Explain", ColorIndex: 1},
		{Text: " it, then ", ColorIndex: NoColor},
		{Text: "summarize", ColorIndex: 0},
	}, runs)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "", Color(NoColor))
	assert.Equal(t, Palette[0], Color(0))
	assert.Equal(t, Palette[1], Color(len(Palette)+1))
	assert.Len(t, Palette, len(Categories))
}
