package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sumgen/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("sumgen gen", []string{"a.cs", "b.cs"}, events).(*progressModel)

	steps := []driver.Event{
		{Stage: driver.StageParse, Status: driver.StatusWorking},
		{File: "a.cs", Stage: driver.StageParse, Status: driver.StatusDone},
		{File: "b.cs", Stage: driver.StageParse, Status: driver.StatusError},
		{Stage: driver.StageCompose, Status: driver.StatusWorking},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}
	if m.items[0].status != "parsed" || m.items[1].status != "error" {
		t.Fatalf("unexpected statuses %+v", m.items)
	}
	if got := m.percent(); got <= 0.9 || got >= 1 {
		t.Fatalf("percent = %v", got)
	}

	m.Update(eventMsg{Stage: driver.StageCompose, Status: driver.StatusDone, Elapsed: 1500 * time.Microsecond})
	if m.items[0].status != "done" || m.items[1].status != "error" {
		t.Fatalf("compose done must finish files, got %+v", m.items)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatalf("doneMsg must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	view := m.View()
	if !strings.Contains(view, "done: sumgen gen") || !strings.Contains(view, "a.cs") || !strings.Contains(view, "compose 1.5ms") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.cs", 20, "short.cs"},
		{"a/very/long/path/Result.cs", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
