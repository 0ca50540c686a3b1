package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/router"
	wsscreen "github.com/abhisek/codecoach/internal/screens/workspace"
	"github.com/abhisek/codecoach/internal/screen"
	"github.com/abhisek/codecoach/internal/ui/layout"
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ws     *ws.Workspace
	width  int
	height int
}

// newAppModel creates a new AppModel with the workspace screen at the root.
func newAppModel(w *ws.Workspace) AppModel {
	return AppModel{
		router: router.New(wsscreen.New(w)),
		ws:     w,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(router.BroadcastMsg{Msg: msg})

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := layout.Status{
		Mode:  m.ws.Mode().Label(),
		Level: string(m.ws.Level()),
		Task:  m.ws.Task() != "",
	}
	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program on w and blocks until the learner
// quits or ctx ends. Workspace events are forwarded to every screen.
func Run(ctx context.Context, w *ws.Workspace) error {
	p := tea.NewProgram(newAppModel(w), tea.WithContext(ctx))

	unsubscribe := w.Subscribe(func(ev ws.Event) {
		p.Send(router.BroadcastMsg{Msg: wsscreen.EventMsg{Event: ev}})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
