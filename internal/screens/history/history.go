package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/router"
	"github.com/abhisek/codecoach/internal/screen"
	"github.com/abhisek/codecoach/internal/ui/layout"
	"github.com/abhisek/codecoach/internal/ui/theme"
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// HistoryScreen lists the answered questions of the current session,
// newest first. Enter expands an entry to its full answer.
type HistoryScreen struct {
	ws       *ws.Workspace
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(w *ws.Workspace) *HistoryScreen {
	return &HistoryScreen{
		ws:       w,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "Answers"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// entries returns history newest first.
func (s *HistoryScreen) entries() []ws.HistoryEntry {
	hist := s.ws.History()
	out := make([]ws.HistoryEntry, len(hist))
	for i, e := range hist {
		out[len(hist)-1-i] = e
	}
	return out
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	n := len(s.ws.History())
	switch kmsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < n-1 {
			s.selected++
		}
	case "enter":
		if n > 0 {
			id := s.entries()[s.selected].ID
			s.expanded[id] = !s.expanded[id]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	entries := s.entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Ask your first question!")
	}

	var b strings.Builder
	b.WriteString("\n")

	wrap := lipgloss.NewStyle().Width(max(width-8, 20)).PaddingLeft(6)
	for i, e := range entries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s#%d  %s  %s", prefix, e.ID, e.At.Format("15:04"), e.Question)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if !s.expanded[e.ID] {
			continue
		}
		r := e.Result
		b.WriteString(wrap.Render(theme.Label.Render("Concept: ") + r.ConceptSummary))
		b.WriteString("\n")
		b.WriteString(wrap.Render(theme.Label.Render("Watch out: ") + r.MisconceptionCheck))
		b.WriteString("\n")
		for j, h := range r.Hints {
			b.WriteString(wrap.Render(fmt.Sprintf("%s %s", theme.Label.Render(fmt.Sprintf("Hint %d:", j+1)), h)))
			b.WriteString("\n")
		}
		b.WriteString(wrap.Foreground(theme.Accent).Render("Next: " + r.NextStepQuestion))
		b.WriteString("\n")
	}

	return b.String()
}
