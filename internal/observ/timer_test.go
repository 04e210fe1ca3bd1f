package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	compose := tm.Begin("compose")
	tm.End(compose, "2 rendered")
	tm.End(parse, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[1].Note != "2 rendered" {
		t.Fatalf("unexpected report %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "compose") || !strings.Contains(s, "// 2 rendered") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}

	tm.Reset()
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("Reset did not clear phases")
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 8 {
		t.Fatalf("expected 8 phases, got %d", n)
	}
}
