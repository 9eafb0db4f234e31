package progress

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/agbru/nearmiss/internal/logging"
	"github.com/agbru/nearmiss/internal/search"
)

func TestUpdate_Fraction(t *testing.T) {
	tests := []struct {
		name string
		u    Update
		want float64
	}{
		{"zero total", Update{Checked: 5, Total: 0}, 0},
		{"halfway", Update{Checked: 50, Total: 100}, 0.5},
		{"complete", Update{Checked: 8281, Total: 8281}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.u.Fraction(); got != tt.want {
				t.Errorf("Fraction() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestChannelObserver(t *testing.T) {
	updates := make(chan Update, 16)
	improvements := make(chan Improvement, 16)
	obs := NewChannelObserver(updates, improvements)

	best := search.Evaluate(24, 47, 3)
	tracker := search.NewTracker()
	tracker.Consider(best)
	held, _ := tracker.Best()

	obs.OnImprovement(held, 7, 100)
	obs.OnProgress(10, 100)

	imp := <-improvements
	if imp.Best.X != 24 || imp.Checked != 7 || imp.Total != 100 {
		t.Errorf("unexpected improvement event: %+v", imp)
	}
	upd := <-updates
	if upd.Checked != 10 || upd.Total != 100 {
		t.Errorf("unexpected update event: %+v", upd)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLoggingObserver(logging.NewLogger(&buf, "test"))

	_, _, err := search.NewSearcher(search.Params{N: 3, K: 11}).Run(context.Background(), obs)
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "new best near miss") {
		t.Errorf("expected improvement log entries, got: %s", out)
	}
	if !strings.Contains(out, "relative_miss") {
		t.Errorf("expected structured miss field, got: %s", out)
	}
}

func TestSubject_FanOut(t *testing.T) {
	updatesA := make(chan Update, 32)
	improvementsA := make(chan Improvement, 32)
	updatesB := make(chan Update, 32)
	improvementsB := make(chan Improvement, 32)

	subject := NewSubject()
	subject.Attach(NewChannelObserver(updatesA, improvementsA))
	subject.Attach(NewChannelObserver(updatesB, improvementsB))

	subject.OnProgress(1, 4)
	subject.OnProgress(2, 4)

	if len(updatesA) != 2 || len(updatesB) != 2 {
		t.Errorf("fan-out delivered %d/%d updates, want 2/2", len(updatesA), len(updatesB))
	}
	if len(improvementsA) != 0 || len(improvementsB) != 0 {
		t.Error("no improvements were sent")
	}
}
