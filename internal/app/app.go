package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/screens/compose"
	"github.com/abhisek/lessonkit/internal/screens/progress"
	"github.com/abhisek/lessonkit/internal/screens/results"
	"github.com/abhisek/lessonkit/internal/ui/layout"
)

// Options wires the terminal UI to the pipeline.
type Options struct {
	Pipeline     *generation.Pipeline
	Reference    progress.ReferenceSource
	ReferenceDir string
	OutputDir    string

	// Provider is shown in the header.
	Provider string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	provider string
	width    int
	height   int
}

// newAppModel creates a new AppModel with the lesson form.
func newAppModel(opts Options) AppModel {
	finish := func(out *generation.Outcome) screen.Screen {
		return results.New(out, opts.OutputDir)
	}
	start := func(in generation.Input) screen.Screen {
		return progress.New(progress.Options{
			Pipeline:     opts.Pipeline,
			Reference:    opts.Reference,
			ReferenceDir: opts.ReferenceDir,
			Finish:       finish,
		}, in)
	}
	return AppModel{
		router:   router.New(compose.New(start)),
		provider: opts.Provider,
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
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
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

	header := layout.RenderHeader(title, m.provider, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	model := newAppModel(opts)
	defer model.router.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
