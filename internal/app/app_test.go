package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/llm"
	"github.com/abhisek/lessonkit/internal/router"
)

func testModel() AppModel {
	mock := llm.NewMockProvider()
	mock.Fallback = func(ctx context.Context, req llm.Request) llm.MockResponse {
		return llm.MockText("text")
	}
	pipeline := generation.NewPipeline(generation.NewClient(mock, generation.ClientOptions{}, nil), generation.HaltOnFailure, nil)
	return newAppModel(Options{Pipeline: pipeline, Provider: "mock"})
}

func TestAppModel_StartsOnForm(t *testing.T) {
	m := testModel()
	if got := m.router.Active().Title(); got != "New Lesson" {
		t.Errorf("active screen = %q, want %q", got, "New Lesson")
	}
}

func TestAppModel_View(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v := updated.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}

	small, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if small.(AppModel).width != 30 {
		t.Error("expected width to be recorded")
	}
}

func TestAppModel_EscAtRootIsNoop(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command for Esc on the root screen")
	}
}

func TestAppModel_GenerateFlow(t *testing.T) {
	m := testModel()
	m.Init()

	// lesson information is the second field
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	for _, r := range "Grade 4" {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	m.Update(cmd())
	if got := m.router.Active().Title(); got != "Generating" {
		t.Fatalf("active screen = %q, want Generating", got)
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
	m.Update(router.PopScreenMsg{})
	if !strings.Contains(m.router.Active().Title(), "Lesson") {
		t.Errorf("expected to be back on the form, got %q", m.router.Active().Title())
	}
}
