package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimer_TotalExcludesNested(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("compile")
	tm.Record("add", 2*time.Millisecond, "")
	tm.End(idx, "7 jobs")
	tm.End(99, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 || !rep.Phases[1].Nested || rep.Phases[1].DurationMS != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Fatalf("total %.3f must equal the top-level phase %.3f", rep.TotalMS, rep.Phases[0].DurationMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "// 7 jobs") || !strings.Contains(s, "    add") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestTimer_ConcurrentRecord(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Record("job", time.Millisecond, "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 8 {
		t.Fatalf("phases = %d, want 8", n)
	}
}

func TestTimer_EmptyReport(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("empty report = %+v", rep)
	}
}
