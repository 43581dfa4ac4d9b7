package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// Tabs is a horizontal tab bar. Left/Right (or h/l, Tab/Shift+Tab) move the
// selection and the number keys jump to a tab.
type Tabs struct {
	Labels   []string
	Selected int
}

// NewTabs creates a tab bar with the first tab selected.
func NewTabs(labels []string) Tabs {
	return Tabs{Labels: labels}
}

// Update handles keyboard navigation. changed is true when the selection
// moved.
func (t Tabs) Update(msg tea.Msg) (tabs Tabs, changed bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(t.Labels) == 0 {
		return t, false
	}

	prev := t.Selected
	switch key := kmsg.String(); key {
	case "right", "l", "tab":
		t.Selected = (t.Selected + 1) % len(t.Labels)
	case "left", "h", "shift+tab":
		t.Selected = (t.Selected - 1 + len(t.Labels)) % len(t.Labels)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(t.Labels) {
				t.Selected = i
			}
		}
	}
	return t, t.Selected != prev
}

// View renders the tab bar.
func (t Tabs) View() string {
	parts := make([]string, len(t.Labels))
	for i, label := range t.Labels {
		if i == t.Selected {
			parts[i] = theme.TabActive.Render(label)
		} else {
			parts[i] = theme.TabInactive.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
