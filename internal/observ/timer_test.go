package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	if err := timer.Track("parse", func() (string, error) { return "3 labels", nil }); err != nil {
		t.Fatalf("Track: %v", err)
	}
	boom := errors.New("boom")
	if err := timer.Track("aggregate", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("Track must return the stage error, got %v", err)
	}

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 2 || report.Phases[0].Note != "3 labels" {
		t.Fatalf("phase 0 = %+v", report.Phases[0])
	}
	if report.Phases[1].Note != "failed" {
		t.Fatalf("phase 1 = %+v", report.Phases[1])
	}
	if report.TotalMS != 4 {
		t.Fatalf("total = %v, want 4", report.TotalMS)
	}

	summary := timer.Summary()
	if !strings.Contains(summary, "parse") || !strings.Contains(summary, "// 3 labels") || !strings.Contains(summary, "total") {
		t.Fatalf("summary = %q", summary)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(3, "ignored")
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("unexpected phases: %+v", got)
	}
}
