package workspace

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/tutor"
	"github.com/abhisek/codecoach/internal/ui/layout"
	"github.com/abhisek/codecoach/internal/ui/theme"
)

const taskPreviewRunes = 80

func (s *WorkspaceScreen) View(width, height int) string {
	var sections []string

	if s.ws.Warning() {
		sections = append(sections, theme.Warning.Render("Select a mode first (Tab)"))
	}
	if msg := s.ws.Error(); msg != "" {
		sections = append(sections, theme.ErrorBanner.Render("✗ "+msg))
	}

	sections = append(sections, s.renderTask())

	if hist := s.ws.History(); len(hist) > 0 {
		last := hist[len(hist)-1]
		sections = append(sections, renderAnswer(last.Question, last.Result, width, layout.IsCompactHeight(height)))
	} else if !s.ws.Mode().Valid() {
		sections = append(sections, theme.Hint.Render("Pick a mode with Tab (debugging, theory, coding help), then ask a question."))
	}

	sections = append(sections, s.renderInput(width))
	sections = append(sections, theme.Card.Width(width-2).Render(s.list.View(width-4)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *WorkspaceScreen) renderTask() string {
	task := strings.TrimSpace(s.ws.Task())
	if s.ws.Uploading() {
		return s.spin.View() + " " + theme.Hint.Render("Reading task…")
	}
	if task == "" {
		return theme.Hint.Render("No task uploaded (Ctrl+O to add one)")
	}
	preview := strings.Join(strings.Fields(task), " ")
	if r := []rune(preview); len(r) > taskPreviewRunes {
		preview = string(r[:taskPreviewRunes]) + "…"
	}
	return theme.Label.Render("Task ") + theme.Subtitle.Render(preview)
}

func (s *WorkspaceScreen) renderInput(width int) string {
	button := s.button.View()
	if s.button.Busy {
		button = s.spin.View() + " " + button
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, s.input.View(), "  ", button)
	box := []string{row}
	if s.input.Value() != "" {
		box = append(box, "  "+s.input.Highlight())
	}
	return theme.Card.Width(width - 2).Render(strings.Join(box, "\n"))
}

func renderAnswer(question string, r tutor.Result, width int, compact bool) string {
	wrap := lipgloss.NewStyle().Width(max(width-6, 20))

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("You asked: " + question))
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Concept"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(r.ConceptSummary))

	if !compact && r.MisconceptionCheck != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Watch out"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(r.MisconceptionCheck))
	}
	if len(r.Hints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Hints"))
		for i, h := range r.Hints {
			b.WriteString("\n")
			b.WriteString(wrap.Render(fmt.Sprintf("%d. %s", i+1, h)))
		}
	}
	if r.NextStepQuestion != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Next step"))
		b.WriteString("\n")
		b.WriteString(wrap.Foreground(theme.Accent).Render(r.NextStepQuestion))
	}
	return theme.Card.Width(width - 2).Render(b.String())
}
