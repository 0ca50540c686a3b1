package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/ui/theme"
)

// SuggestionList renders the suggestion panel. Selected is the cursor
// position, or -1 when the cursor is in the question input.
type SuggestionList struct {
	Heading    string
	Items      []string
	Loading    string
	Advisory   string
	Selectable bool
	Selected   int
}

// NewSuggestionList creates an empty list with no cursor.
func NewSuggestionList() SuggestionList {
	return SuggestionList{Selected: -1}
}

// MoveUp moves the cursor toward the input. Returns false when it is
// already there.
func (s *SuggestionList) MoveUp() bool {
	if s.Selected < 0 {
		return false
	}
	s.Selected--
	return true
}

// MoveDown moves the cursor into or along the list.
func (s *SuggestionList) MoveDown() bool {
	if !s.Selectable || s.Selected >= len(s.Items)-1 {
		return false
	}
	s.Selected++
	return true
}

// Clamp keeps the cursor valid after the items changed.
func (s *SuggestionList) Clamp() {
	if !s.Selectable || len(s.Items) == 0 {
		s.Selected = -1
		return
	}
	s.Selected = min(s.Selected, len(s.Items)-1)
}

// View renders the panel at width.
func (s SuggestionList) View(width int) string {
	var b strings.Builder
	if s.Heading != "" {
		b.WriteString(theme.Label.Render(s.Heading))
		b.WriteString("\n")
	}

	itemStyle := lipgloss.NewStyle().Width(max(width-6, 10))
	switch {
	case s.Loading != "":
		b.WriteString(theme.Hint.Render("  " + s.Loading))
	case s.Advisory != "":
		b.WriteString(theme.Hint.Render("  " + s.Advisory))
	case len(s.Items) == 0:
		b.WriteString(theme.Hint.Render("  Nothing to suggest yet."))
	default:
		for i, item := range s.Items {
			prefix := "  • "
			if s.Selectable {
				prefix = fmt.Sprintf("  %d. ", i+1)
			}
			line := itemStyle.Render(prefix + item)
			if i == s.Selected {
				line = theme.Selected.Render(line)
			} else if s.Selectable {
				line = theme.Unselected.Render(line)
			} else {
				line = theme.Subtitle.Render(line)
			}
			b.WriteString(line)
			if i < len(s.Items)-1 {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
