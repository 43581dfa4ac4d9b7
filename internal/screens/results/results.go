// Package results shows the generated outputs, one tab per stage, and
// saves them as a ZIP archive of Word documents.
package results

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/lessonkit/internal/export"
	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/ui/components"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

type savedMsg struct {
	path string
	err  error
}

type ResultsScreen struct {
	outcome   *generation.Outcome
	outputDir string

	tabs     components.Tabs
	viewport viewport.Model

	// rendered caches glamour output per tab for renderedWidth.
	rendered      map[int]string
	renderedWidth int
	shownTab      int

	status    string
	statusErr bool
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

func New(outcome *generation.Outcome, outputDir string) *ResultsScreen {
	labels := make([]string, len(generation.Stages))
	for i, stage := range generation.Stages {
		labels[i] = fmt.Sprintf("%d %s", i+1, stage.Title())
	}
	s := &ResultsScreen{
		outcome:   outcome,
		outputDir: outputDir,
		tabs:      components.NewTabs(labels),
		viewport:  viewport.New(),
		rendered:  make(map[int]string),
		shownTab:  -1,
	}
	s.viewport.SoftWrap = true
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Switch output"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "S", Description: "Save ZIP"},
		{Key: "Esc", Description: "Edit lesson"},
	}
}

// Status returns the last save message.
func (s *ResultsScreen) Status() string { return s.status }

// Markdown returns the raw text shown for stage.
func (s *ResultsScreen) Markdown(stage generation.Stage) string {
	res, ok := s.outcome.Result(stage)
	if !ok {
		return export.NotGenerated
	}
	return res.Text()
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			s.status, s.statusErr = "Save failed: "+msg.err.Error(), true
		} else {
			s.status, s.statusErr = "Saved to "+msg.path, false
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "s", "ctrl+s":
			s.status, s.statusErr = "Saving...", false
			return s, s.save()
		}

		var changed bool
		s.tabs, changed = s.tabs.Update(msg)
		if changed {
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) save() tea.Cmd {
	out, dir := s.outcome, s.outputDir
	return func() tea.Msg {
		path, err := export.SaveArchive(out, dir)
		return savedMsg{path: path, err: err}
	}
}

func (s *ResultsScreen) View(width, height int) string {
	contentWidth := max(width-4, 20)

	header := s.tabs.View()
	statusLine := theme.Hint.Render(s.summary())
	if s.status != "" {
		style := theme.Done
		if s.statusErr {
			style = theme.Failed
		}
		statusLine = style.Render(s.status)
	}

	s.viewport.SetWidth(contentWidth)
	s.viewport.SetHeight(max(height-lipgloss.Height(header)-4, 3))

	if contentWidth != s.renderedWidth {
		s.rendered = make(map[int]string)
		s.renderedWidth = contentWidth
		s.shownTab = -1
	}
	if s.tabs.Selected != s.shownTab {
		s.viewport.SetContent(s.render(s.tabs.Selected, contentWidth))
		s.viewport.GotoTop()
		s.shownTab = s.tabs.Selected
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		statusLine,
		"",
		s.viewport.View(),
	))
}

func (s *ResultsScreen) summary() string {
	failed := len(s.outcome.Failed())
	skipped := len(generation.Stages) - len(s.outcome.Results)
	switch {
	case failed == 0 && skipped == 0:
		return fmt.Sprintf("All %d outputs generated in %s.", len(generation.Stages), s.outcome.Duration.Round(time.Second))
	case skipped > 0:
		return fmt.Sprintf("%d failed, %d not generated.", failed, skipped)
	default:
		return fmt.Sprintf("%d failed.", failed)
	}
}

func (s *ResultsScreen) render(tab, width int) string {
	if out, ok := s.rendered[tab]; ok {
		return out
	}

	md := s.Markdown(generation.Stages[tab])
	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = strings.TrimRight(rendered, "\n")
		}
	}
	s.rendered[tab] = out
	return out
}
