// Package compose is the lesson form: title, lesson information and
// additional resources, with Generate and Reset actions.
package compose

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/ui/components"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// MissingInfoMessage is shown when Generate is pressed without lesson
// information.
const MissingInfoMessage = "Please provide lesson information."

// StartFunc builds the screen that runs the pipeline for in.
type StartFunc func(in generation.Input) screen.Screen

type ComposeScreen struct {
	title     *components.TextInput
	info      *components.TextArea
	resources *components.TextArea
	fields    []components.Field

	generate components.Button
	reset    components.Button

	// focus indexes fields, then the two buttons.
	focus int
	flash string
	start StartFunc
}

var _ screen.Screen = (*ComposeScreen)(nil)
var _ screen.KeyHintProvider = (*ComposeScreen)(nil)

func New(start StartFunc) *ComposeScreen {
	s := &ComposeScreen{
		title:     components.NewTextInput("Lesson Title", "e.g. The Boston Tea Party", 200),
		info:      components.NewTextArea("Lesson Information", "Title, description, lesson question and learning objectives", 6),
		resources: components.NewTextArea("Additional Resources (optional)", "Links, readings or notes for the lesson", 3),
		start:     start,
	}
	s.fields = []components.Field{s.title, s.info, s.resources}
	s.generate = components.NewButton("Generate")
	s.reset = components.NewButton("Reset")
	return s
}

func (s *ComposeScreen) Init() tea.Cmd {
	return s.setFocus(0)
}

func (s *ComposeScreen) Title() string {
	return "New Lesson"
}

func (s *ComposeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+G", Description: "Generate"},
		{Key: "Ctrl+R", Description: "Reset"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Input returns the form contents.
func (s *ComposeScreen) Input() generation.Input {
	return generation.Input{
		Title:               strings.TrimSpace(s.title.Value()),
		LessonInfo:          s.info.Value(),
		AdditionalResources: s.resources.Value(),
	}
}

// Flash returns the message shown above the buttons, if any.
func (s *ComposeScreen) Flash() string { return s.flash }

func (s *ComposeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, s.updateFocused(msg)
	}

	switch kmsg.String() {
	case "tab":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab":
		return s, s.setFocus(s.focus - 1)
	case "ctrl+g":
		return s, s.submit()
	case "ctrl+r":
		return s, s.clear()
	case "enter":
		// Single-line title: Enter moves on instead of submitting.
		if s.focus == 0 {
			return s, s.setFocus(1)
		}
	}

	if s.flash != "" && s.focus < len(s.fields) {
		s.flash = ""
	}
	return s, s.updateFocused(msg)
}

func (s *ComposeScreen) updateFocused(msg tea.Msg) tea.Cmd {
	switch {
	case s.focus < len(s.fields):
		return s.fields[s.focus].Update(msg)
	case s.generate.Pressed(msg):
		return s.submit()
	case s.reset.Pressed(msg):
		return s.clear()
	}
	return nil
}

func (s *ComposeScreen) setFocus(i int) tea.Cmd {
	n := len(s.fields) + 2
	s.focus = (i%n + n) % n

	var cmd tea.Cmd
	for j, f := range s.fields {
		if j == s.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	s.generate.Active = s.focus == len(s.fields)
	s.reset.Active = s.focus == len(s.fields)+1
	return cmd
}

func (s *ComposeScreen) submit() tea.Cmd {
	in := s.Input()
	if err := in.Validate(); err != nil {
		s.flash = MissingInfoMessage
		return s.setFocus(1)
	}
	s.flash = ""
	next := s.start(in)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *ComposeScreen) clear() tea.Cmd {
	for _, f := range s.fields {
		f.SetValue("")
	}
	s.flash = ""
	return s.setFocus(0)
}

func (s *ComposeScreen) View(width, height int) string {
	formWidth := min(width-4, 100)

	var parts []string
	parts = append(parts, theme.Subtitle.Render(
		"Describe the lesson. Reference materials are read from the reference directory."), "")

	if layout.IsCompactHeight(height) {
		s.info.Height, s.resources.Height = 3, 2
	} else {
		s.info.Height, s.resources.Height = 6, 3
	}
	for _, f := range s.fields {
		parts = append(parts, f.View(formWidth))
	}

	if s.flash != "" {
		parts = append(parts, theme.Failed.Render(s.flash))
	} else {
		parts = append(parts, "")
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Center,
		s.generate.View(), "  ", s.reset.View()))

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.NewStyle().Padding(1, 2).Render(form)
}
