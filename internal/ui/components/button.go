package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// Button is a styled button component. Active means it has focus.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// Pressed reports whether msg presses the button: Enter or Space while it
// is active.
func (b Button) Pressed(msg tea.Msg) bool {
	if !b.Active {
		return false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "enter", "space":
		return true
	}
	return false
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
