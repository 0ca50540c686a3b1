// Package setup is the mode and level picker.
package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/router"
	"github.com/abhisek/codecoach/internal/screen"
	"github.com/abhisek/codecoach/internal/tutor"
	"github.com/abhisek/codecoach/internal/ui/components"
	"github.com/abhisek/codecoach/internal/ui/layout"
	"github.com/abhisek/codecoach/internal/ui/theme"
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// changedMsg asks the screen to rebuild its menu after a selection.
type changedMsg struct{}

// SetupScreen lets the learner pick a mode and a level from one menu.
type SetupScreen struct {
	ws   *ws.Workspace
	menu components.Menu
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a new SetupScreen.
func New(w *ws.Workspace) *SetupScreen {
	s := &SetupScreen{ws: w}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *SetupScreen) items() []components.MenuItem {
	mode, level := s.ws.Mode(), s.ws.Level()
	changed := func() tea.Msg { return changedMsg{} }

	var items []components.MenuItem
	for _, m := range tutor.Modes() {
		items = append(items, components.MenuItem{
			Label:  "Mode: " + m.Label(),
			Marked: m == mode,
			Action: func() tea.Cmd {
				s.ws.SelectMode(m)
				return changed
			},
		})
	}
	items = append(items, components.MenuItem{Label: strings.Repeat("─", 20), Disabled: true})
	for _, l := range tutor.Levels() {
		items = append(items, components.MenuItem{
			Label:  "Level: " + string(l),
			Marked: l == level,
			Action: func() tea.Cmd {
				s.ws.SelectLevel(l)
				return changed
			},
		})
	}
	return items
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Mode & Level"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		selected := s.menu.Selected
		s.menu = components.NewMenu(s.items())
		s.menu.Selected = selected
		return s, nil
	case tea.KeyPressMsg:
		if msg.String() == "q" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) View(width, height int) string {
	body := theme.Title.Render("How should the tutor help?") + "\n\n" +
		s.menu.View() + "\n" +
		theme.Hint.Render("Modes shape the tutor's focus. Levels set how deep explanations go.")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
