package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codecoach/internal/ui/theme"
)

// MenuItem represents a single item in a menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
	// Marked shows the item as the current choice.
	Marked bool
}

// Menu is a vertical menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the marked item, or on the
// first enabled one.
func NewMenu(items []MenuItem) Menu {
	selected := -1
	for i, item := range items {
		if item.Marked && !item.Disabled {
			selected = i
			break
		}
	}
	if selected < 0 {
		selected = 0
		for i, item := range items {
			if !item.Disabled {
				selected = i
				break
			}
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		mark := "  "
		if item.Marked {
			mark = "● "
		}
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + mark + item.Label))
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + mark + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + mark + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
