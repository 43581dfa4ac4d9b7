package progress

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/llm"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
)

type stubReference struct{}

func (stubReference) LoadOrEmpty(context.Context, string) string {
	return "Document: a.txt\nREFERENCE\n\n"
}

type resultsStub struct{ out *generation.Outcome }

func (r *resultsStub) Init() tea.Cmd                            { return nil }
func (r *resultsStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return r, nil }
func (r *resultsStub) View(int, int) string                    { return "" }
func (r *resultsStub) Title() string                           { return "results" }

func newTestScreen(mock *llm.MockProvider, policy generation.Policy) *ProgressScreen {
	pipeline := generation.NewPipeline(generation.NewClient(mock, generation.ClientOptions{}, nil), policy, nil)
	return New(Options{
		Pipeline:  pipeline,
		Reference: stubReference{},
		Finish: func(out *generation.Outcome) screen.Screen {
			return &resultsStub{out: out}
		},
	}, generation.Input{Title: "Rivers", LessonInfo: "Grade 4"})
}

// drive feeds command results back into the screen until it asks to be
// replaced.
func drive(t *testing.T, s *ProgressScreen) *generation.Outcome {
	t.Helper()
	cmd := s.loadReference()
	for i := 0; i < 20; i++ {
		if cmd == nil {
			t.Fatal("run stopped without a replace command")
		}
		msg := cmd()
		if replace, ok := msg.(router.ReplaceScreenMsg); ok {
			return replace.Screen.(*resultsStub).out
		}
		_, cmd = s.Update(msg)
	}
	t.Fatal("run did not finish")
	return nil
}

func TestProgressScreen_RunsAllStages(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = func(ctx context.Context, req llm.Request) llm.MockResponse {
		if req.Schema != nil {
			return llm.MockText(`{"summary":"ok","findings":[]}`)
		}
		return llm.MockText(llm.PurposeFrom(ctx))
	}
	s := newTestScreen(mock, generation.HaltOnFailure)

	out := drive(t, s)
	if !out.Complete() {
		t.Fatalf("expected complete outcome, failed: %v", out.Failed())
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "REFERENCE") {
		t.Error("expected reference text in the blueprint prompt")
	}
	for _, stage := range generation.Stages {
		if s.state[stage] != statusDone {
			t.Errorf("stage %s: state %d, want done", stage, s.state[stage])
		}
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "100%") {
		t.Errorf("expected full progress bar in view:\n%s", view)
	}
}

func TestProgressScreen_Halt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText("blueprint"),
		llm.MockResponse{Err: errors.New("quota exhausted")},
	)
	s := newTestScreen(mock, generation.HaltOnFailure)

	out := drive(t, s)
	if !out.Halted {
		t.Fatal("expected halted outcome")
	}
	if s.state[generation.StageAssessment] != statusFailed {
		t.Errorf("assessment state = %d, want failed", s.state[generation.StageAssessment])
	}
	if s.state[generation.StageMedia] != statusSkipped {
		t.Errorf("media state = %d, want skipped", s.state[generation.StageMedia])
	}
	if !strings.Contains(s.View(80, 24), "skipped") {
		t.Error("expected skipped stages in view")
	}
}

func TestProgressScreen_CloseCancels(t *testing.T) {
	s := newTestScreen(llm.NewMockProvider(), generation.HaltOnFailure)
	s.Close()
	if s.ctx.Err() == nil {
		t.Error("expected context to be cancelled")
	}
}

func TestProgressScreen_InvalidInput(t *testing.T) {
	pipeline := generation.NewPipeline(generation.NewClient(llm.NewMockProvider(), generation.ClientOptions{}, nil), generation.HaltOnFailure, nil)
	s := New(Options{Pipeline: pipeline}, generation.Input{})

	_, cmd := s.Update(referenceLoadedMsg{})
	if cmd != nil {
		t.Error("expected no command for invalid input")
	}
	if !strings.Contains(s.View(80, 24), generation.ErrMissingLessonInfo.Error()) {
		t.Error("expected the validation error in view")
	}
}
