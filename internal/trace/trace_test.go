package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevel_ShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeFunction, false},
		{LevelDetail, ScopeFunction, true},
		{LevelDetail, ScopeInstruction, false},
		{LevelDebug, ScopeInstruction, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracer_WritesSpan(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeFunction, "function:main", 0)
	Point(tr, ScopeFunction, "patchpoint", "id=3", span.ID())
	span.WithExtra("blocks", "2").End("ok")

	out := buf.String()
	for _, want := range []string{"function:main", "patchpoint (id=3)", "{blocks=2}"} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace output missing %q:\n%s", want, out)
		}
	}
}

func TestStreamTracer_FiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopeFunction, "function:f", 0).End("")
	if buf.Len() != 0 {
		t.Fatalf("function scope leaked at phase level: %s", buf.String())
	}
}

func TestRingTracer_KeepsTail(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeDriver, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestMultiTracer_FindsRing(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiTracer(LevelDetail, NewStreamTracer(&buf, LevelDetail, FormatText), NewRingTracer(8, LevelDetail))
	Point(m, ScopeDriver, "x", "", 0)
	if m.Ring() == nil || len(m.Ring().Snapshot()) != 1 {
		t.Fatalf("ring did not receive the event")
	}
	if buf.Len() == 0 {
		t.Fatalf("stream did not receive the event")
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	r := NewRingTracer(4, LevelDetail)
	ctx = WithTracer(ctx, r)
	span := Begin(FromContext(ctx), ScopeDriver, "job", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}
