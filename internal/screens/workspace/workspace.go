package workspace

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codecoach/internal/router"
	"github.com/abhisek/codecoach/internal/screen"
	"github.com/abhisek/codecoach/internal/screens/history"
	"github.com/abhisek/codecoach/internal/screens/setup"
	"github.com/abhisek/codecoach/internal/screens/upload"
	"github.com/abhisek/codecoach/internal/tutor"
	"github.com/abhisek/codecoach/internal/ui/components"
	"github.com/abhisek/codecoach/internal/ui/layout"
	"github.com/abhisek/codecoach/internal/ui/theme"
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// questionCharLimit bounds a single question.
const questionCharLimit = 2000

// WorkspaceScreen is the main tutoring screen: question input with keyword
// highlighting, the suggestion panel and the latest answer.
type WorkspaceScreen struct {
	ws       *ws.Workspace
	input    components.TextInput
	list     components.SuggestionList
	button   components.Button
	spin     spinner.Model
	spinning bool
	width    int
}

var _ screen.Screen = (*WorkspaceScreen)(nil)
var _ screen.KeyHintProvider = (*WorkspaceScreen)(nil)

// New creates the screen for w.
func New(w *ws.Workspace) *WorkspaceScreen {
	s := &WorkspaceScreen{
		ws:     w,
		input:  components.NewTextInput("Ask about your code…", questionCharLimit),
		list:   components.NewSuggestionList(),
		button: components.NewButton("Ask", "Submitting…"),
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Spinner)),
	}
	s.sync()
	return s
}

func (s *WorkspaceScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *WorkspaceScreen) Title() string {
	return "Workspace"
}

func (s *WorkspaceScreen) KeyHints() []layout.KeyHint {
	if s.list.Selected >= 0 {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Use prompt"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Esc", Description: "Back to input"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Tab", Description: "Mode"},
		{Key: "Shift+Tab", Description: "Level"},
		{Key: "Ctrl+O", Description: "Task"},
		{Key: "Ctrl+R", Description: "New ideas"},
		{Key: "Ctrl+E", Description: "Answers"},
	}
}

func (s *WorkspaceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		s.sync()
		return s, s.startSpinner()

	case submitDoneMsg:
		if msg.Err == nil {
			s.input.Reset()
		}
		s.sync()
		return s, s.input.Focus()

	case spinner.TickMsg:
		if !s.busy() {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.input.SetWidth(max(msg.Width-16, 20))
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *WorkspaceScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if s.list.Selected >= 0 {
			return s.useSuggestion()
		}
		return s.submit()
	case "tab":
		s.ws.SelectMode(nextMode(s.ws.Mode()))
		return s, nil
	case "shift+tab":
		s.ws.SelectLevel(nextLevel(s.ws.Level()))
		return s, nil
	case "ctrl+k":
		return s, s.push(setup.New(s.ws))
	case "ctrl+o":
		return s, s.push(upload.New(s.ws))
	case "ctrl+e":
		return s, s.push(history.New(s.ws))
	case "ctrl+x":
		s.ws.SetTask("")
		return s, nil
	case "ctrl+r":
		if s.ws.Suggestions().Origin == ws.OriginFollowup {
			s.ws.RefreshFollowups()
		} else {
			s.ws.RefreshStarters()
		}
		return s, nil
	case "up":
		if s.list.MoveUp() && s.list.Selected < 0 {
			return s, s.input.Focus()
		}
		return s, nil
	case "down":
		if s.list.MoveDown() {
			s.input.Blur()
		}
		return s, nil
	case "esc":
		if s.list.Selected >= 0 {
			s.list.Selected = -1
			return s, s.input.Focus()
		}
		s.ws.ClearError()
		return s, nil
	}

	if s.list.Selected >= 0 {
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.ws.SetInput(s.input.Value())
	s.refreshList()
	return s, cmd
}

func (s *WorkspaceScreen) submit() (screen.Screen, tea.Cmd) {
	if s.ws.Submitting() {
		return s, nil
	}
	s.ws.SetInput(s.input.Value())
	w := s.ws
	return s, func() tea.Msg {
		err := w.Submit(context.Background())
		if errors.Is(err, ws.ErrClosed) {
			return nil
		}
		return submitDoneMsg{Err: err}
	}
}

// busy reports whether anything the screen shows is still being fetched.
func (s *WorkspaceScreen) busy() bool {
	return s.ws.Submitting() || s.ws.Uploading() || s.ws.Suggestions().Loading
}

// startSpinner begins the tick loop unless one is already running or
// nothing is loading. Ticks only reach the active screen, so the loop ends
// when another screen is pushed.
func (s *WorkspaceScreen) startSpinner() tea.Cmd {
	if s.spinning || !s.busy() {
		return nil
	}
	s.spinning = true
	return s.spin.Tick
}

func (s *WorkspaceScreen) useSuggestion() (screen.Screen, tea.Cmd) {
	text, ok := s.ws.Select(s.list.Selected)
	s.list.Selected = -1
	if ok {
		s.input.SetValue(text)
	}
	s.sync()
	return s, s.input.Focus()
}

// sync pulls the input and suggestion state from the workspace.
func (s *WorkspaceScreen) sync() {
	if v := s.ws.Input(); v != s.input.Value() {
		if v == "" {
			s.input.Reset()
		} else {
			s.input.SetValue(v)
		}
	}
	s.button.Busy = s.ws.Submitting()
	s.refreshList()
}

func (s *WorkspaceScreen) refreshList() {
	set := s.ws.Suggestions()
	s.list.Heading = heading(set.Origin)
	s.list.Items = set.Items
	s.list.Advisory = set.Advisory
	s.list.Selectable = set.Selectable() && !set.Loading
	s.list.Loading = ""
	if set.Loading {
		s.list.Loading = ws.MsgGeneratingIdeas
	}
	s.list.Clamp()
}

func heading(o ws.Origin) string {
	switch o {
	case ws.OriginTypingTip:
		return "Writing tips"
	case ws.OriginStarter:
		return "Try asking"
	case ws.OriginFollowup:
		return "Next prompt ideas"
	}
	return ""
}

func (s *WorkspaceScreen) push(sc screen.Screen) tea.Cmd {
	s.spinning = false
	return func() tea.Msg { return router.PushScreenMsg{Screen: sc} }
}

func nextMode(m tutor.Mode) tutor.Mode {
	modes := tutor.Modes()
	for i, candidate := range modes {
		if candidate == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func nextLevel(l tutor.Level) tutor.Level {
	levels := tutor.Levels()
	for i, candidate := range levels {
		if candidate == l {
			return levels[(i+1)%len(levels)]
		}
	}
	return levels[0]
}
