package components

import (
	"github.com/abhisek/codecoach/internal/ui/theme"
)

// Button is a styled action label. A busy button shows BusyLabel and
// renders inactive.
type Button struct {
	Label     string
	BusyLabel string
	Busy      bool
}

// NewButton creates a new button.
func NewButton(label, busyLabel string) Button {
	return Button{
		Label:     label,
		BusyLabel: busyLabel,
	}
}

// View renders the button.
func (b Button) View() string {
	if b.Busy {
		return theme.ButtonInactive.Render(b.BusyLabel)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}
