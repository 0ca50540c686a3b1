// Package upload is the task file picker.
package upload

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/router"
	"github.com/abhisek/codecoach/internal/screen"
	"github.com/abhisek/codecoach/internal/ui/components"
	"github.com/abhisek/codecoach/internal/ui/layout"
	"github.com/abhisek/codecoach/internal/ui/theme"
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// uploadDoneMsg is sent when a task upload settles.
type uploadDoneMsg struct {
	Err error
}

// UploadScreen asks for the path of a .txt, .md or .pdf task file.
type UploadScreen struct {
	ws    *ws.Workspace
	input components.TextInput
	busy  bool
	err   string
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates a new UploadScreen.
func New(w *ws.Workspace) *UploadScreen {
	return &UploadScreen{
		ws:    w,
		input: components.NewTextInput("path/to/assignment.pdf", 0),
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *UploadScreen) Title() string {
	return "Upload Task"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Load"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.err = s.ws.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		if msg.String() == "enter" {
			return s.load()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *UploadScreen) load() (screen.Screen, tea.Cmd) {
	path := strings.TrimSpace(s.input.Value())
	if path == "" {
		return s, nil
	}
	s.busy = true
	s.err = ""
	w := s.ws
	return s, func() tea.Msg {
		return uploadDoneMsg{Err: w.UploadTask(context.Background(), expandHome(path))}
	}
}

func (s *UploadScreen) View(width, height int) string {
	lines := []string{
		theme.Title.Render("Upload a task or assignment"),
		theme.Subtitle.Render("Supported: .txt, .md, .pdf"),
		"",
		s.input.View(),
	}
	switch {
	case s.busy:
		lines = append(lines, "", theme.Hint.Render("Reading task…"))
	case s.err != "":
		lines = append(lines, "", theme.ErrorBanner.Render("✗ "+s.err))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(min(width-4, 72)).Render(strings.Join(lines, "\n")))
}
