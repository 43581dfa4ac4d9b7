package components

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// Field is a labelled form input that can take focus.
type Field interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
	Value() string
	SetValue(s string)
}

// TextInput is a single-line labelled input.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput creates a new styled text input.
func NewTextInput(label, placeholder string, charLimit int) *TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return &TextInput{Label: label, Model: ti}
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }
func (t *TextInput) Blur()          { t.Model.Blur() }
func (t *TextInput) Focused() bool  { return t.Model.Focused() }
func (t *TextInput) Value() string  { return t.Model.Value() }
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

func (t *TextInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return cmd
}

func (t *TextInput) View(width int) string {
	t.Model.SetWidth(max(width-4, 10))
	return renderField(t.Label, t.Model.View(), t.Focused(), width)
}

// TextArea is a multi-line labelled input.
type TextArea struct {
	Label  string
	Model  textarea.Model
	Height int
}

// NewTextArea creates a multi-line input showing height lines.
func NewTextArea(label, placeholder string, height int) *TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(height)
	return &TextArea{Label: label, Model: ta, Height: height}
}

func (t *TextArea) Focus() tea.Cmd { return t.Model.Focus() }
func (t *TextArea) Blur()          { t.Model.Blur() }
func (t *TextArea) Focused() bool  { return t.Model.Focused() }
func (t *TextArea) Value() string  { return t.Model.Value() }
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

func (t *TextArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return cmd
}

func (t *TextArea) View(width int) string {
	t.Model.SetWidth(max(width-4, 10))
	t.Model.SetHeight(t.Height)
	return renderField(t.Label, t.Model.View(), t.Focused(), width)
}

func renderField(label, body string, focused bool, width int) string {
	labelStyle, card := theme.Label, theme.Card
	if focused {
		labelStyle, card = theme.FocusedLabel, theme.FocusedCard
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(label),
		card.Width(width).Render(body),
	)
}
