// Package progress runs the generation pipeline one stage per command and
// shows each stage's state while it works.
package progress

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/ui/components"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// ReferenceSource supplies the reference blob for a run.
type ReferenceSource interface {
	LoadOrEmpty(ctx context.Context, dir string) string
}

// FinishFunc builds the screen that replaces this one when the run ends.
type FinishFunc func(out *generation.Outcome) screen.Screen

type Options struct {
	Pipeline     *generation.Pipeline
	Reference    ReferenceSource
	ReferenceDir string
	Finish       FinishFunc
}

type status int

const (
	statusPending status = iota
	statusRunning
	statusDone
	statusFailed
	statusSkipped
)

type referenceLoadedMsg struct {
	text string
}

type stageDoneMsg struct {
	result generation.Result
}

type ProgressScreen struct {
	opts  Options
	in    generation.Input
	ctx   context.Context
	stop  context.CancelFunc
	run   *generation.Run
	err   error
	state map[generation.Stage]status
	done  int

	loading bool
	spinner spinner.Model
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)
var _ screen.Closer = (*ProgressScreen)(nil)

func New(opts Options, in generation.Input) *ProgressScreen {
	ctx, stop := context.WithCancel(context.Background())
	s := &ProgressScreen{
		opts:    opts,
		in:      in,
		ctx:     ctx,
		stop:    stop,
		state:   make(map[generation.Stage]status, len(generation.Stages)),
		loading: true,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
	return s
}

func (s *ProgressScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.loadReference())
}

func (s *ProgressScreen) Title() string {
	return "Generating"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Cancel"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Close cancels the in-flight model call.
func (s *ProgressScreen) Close() {
	s.stop()
}

func (s *ProgressScreen) loadReference() tea.Cmd {
	ref, dir, ctx := s.opts.Reference, s.opts.ReferenceDir, s.ctx
	return func() tea.Msg {
		if ref == nil {
			return referenceLoadedMsg{}
		}
		return referenceLoadedMsg{text: ref.LoadOrEmpty(ctx, dir)}
	}
}

// step runs the next stage off the UI goroutine. The run is only touched
// by one command at a time: the next step is issued after the previous
// result arrives.
func (s *ProgressScreen) step() tea.Cmd {
	run, ctx := s.run, s.ctx
	return func() tea.Msg {
		return stageDoneMsg{result: run.Step(ctx)}
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case referenceLoadedMsg:
		s.loading = false
		in := s.in
		in.Reference = msg.text
		run, err := s.opts.Pipeline.Begin(in)
		if err != nil {
			s.err = err
			return s, nil
		}
		s.run = run
		return s, s.advance()

	case stageDoneMsg:
		if msg.result.OK() {
			s.state[msg.result.Stage] = statusDone
		} else {
			s.state[msg.result.Stage] = statusFailed
		}
		s.done++
		return s, s.advance()
	}
	return s, nil
}

// advance starts the next stage or hands the outcome to the results screen.
func (s *ProgressScreen) advance() tea.Cmd {
	if stage, ok := s.run.Next(); ok {
		s.state[stage] = statusRunning
		return s.step()
	}

	out := s.run.Outcome()
	for _, stage := range generation.Stages {
		if _, ran := out.Result(stage); !ran {
			s.state[stage] = statusSkipped
		}
	}
	if s.opts.Finish == nil {
		return nil
	}
	next := s.opts.Finish(out)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *ProgressScreen) View(width, height int) string {
	var b strings.Builder

	heading := "Generating lesson materials"
	if s.in.Title != "" {
		heading = fmt.Sprintf("Generating materials for %q", s.in.Title)
	}
	b.WriteString(theme.Title.Render(heading))
	b.WriteString("\n\n")

	if s.err != nil {
		b.WriteString(theme.Failed.Render("Error: " + s.err.Error()))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	barWidth := min(width-8, 60)
	b.WriteString(components.NewProgressBar("Progress", s.done, len(generation.Stages), barWidth).View())
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString(s.spinner.View() + " " + theme.Body.Render("Reading reference materials..."))
		b.WriteString("\n\n")
	}

	for _, stage := range generation.Stages {
		b.WriteString(s.stageLine(stage))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *ProgressScreen) stageLine(stage generation.Stage) string {
	label := stage.Title()
	switch s.state[stage] {
	case statusRunning:
		return s.spinner.View() + " " + theme.Body.Render("Generating "+stage.Label()+"...")
	case statusDone:
		return theme.Done.Render("✓") + " " + theme.Body.Render(label)
	case statusFailed:
		return theme.Failed.Render("✗") + " " + theme.Body.Render(label)
	case statusSkipped:
		return theme.Skipped.Render("– " + label + " (skipped)")
	default:
		return theme.Skipped.Render("· " + label)
	}
}
