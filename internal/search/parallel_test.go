package search

import (
	"context"
	"testing"

	apperrors "github.com/agbru/nearmiss/internal/errors"
)

// TestRunParallel_MatchesSequential verifies the reduction reproduces the
// sequential result exactly for a range of worker counts, including counts
// that do not divide the span evenly and counts exceeding it.
func TestRunParallel_MatchesSequential(t *testing.T) {
	params := Params{N: 3, K: 40}
	searcher := NewSearcher(params)

	seqBest, seqChecked, err := searcher.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("sequential Run() = %v", err)
	}

	for _, workers := range []int{1, 2, 3, 4, 7, 31, 100} {
		best, checked, err := searcher.RunParallel(context.Background(), workers, nil)
		if err != nil {
			t.Fatalf("RunParallel(workers=%d) = %v", workers, err)
		}
		if checked != seqChecked {
			t.Errorf("workers=%d: checked = %d, want %d", workers, checked, seqChecked)
		}
		if best.X != seqBest.X || best.Y != seqBest.Y || best.Z != seqBest.Z {
			t.Errorf("workers=%d: best = (%d,%d,%d), want (%d,%d,%d)",
				workers, best.X, best.Y, best.Z, seqBest.X, seqBest.Y, seqBest.Z)
		}
		if best.AbsoluteMiss.Cmp(seqBest.AbsoluteMiss) != 0 || best.Sum.Cmp(seqBest.Sum) != 0 {
			t.Errorf("workers=%d: miss/sum differ from sequential run", workers)
		}
	}
}

// TestRunParallel_TiePolicyAcrossChunks uses symmetric pairs that land in
// different x-chunks: (x,y) and (y,x) have equal relative misses, and the
// merged best must keep the one the sequential order sees first.
func TestRunParallel_TiePolicyAcrossChunks(t *testing.T) {
	params := Params{N: 3, K: 47}
	searcher := NewSearcher(params)

	// With k=47 the best cube near miss is the 24/47 pair; 24 and 47 fall
	// in different chunks for any workers >= 2.
	for _, workers := range []int{2, 5, 19} {
		best, _, err := searcher.RunParallel(context.Background(), workers, nil)
		if err != nil {
			t.Fatalf("RunParallel(workers=%d) = %v", workers, err)
		}
		if best.X != 24 || best.Y != 47 {
			t.Errorf("workers=%d: best = (%d,%d), want first-seen orientation (24,47)",
				workers, best.X, best.Y)
		}
	}
}

func TestRunParallel_EventsAccountedFor(t *testing.T) {
	params := Params{N: 3, K: 20}
	obs := &recordingObserver{}

	_, checked, err := NewSearcher(params, WithProgressInterval(10)).
		RunParallel(context.Background(), 3, obs)
	if err != nil {
		t.Fatalf("RunParallel() = %v", err)
	}
	if checked != params.TotalCombinations() {
		t.Errorf("checked = %d, want %d", checked, params.TotalCombinations())
	}
	if len(obs.improvements) == 0 {
		t.Error("expected at least one improvement event per worker")
	}
	if len(obs.progress) == 0 {
		t.Error("expected progress events at the configured cadence")
	}
}

func TestRunParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewSearcher(Params{N: 3, K: 200}).RunParallel(ctx, 4, nil)
	if err == nil {
		t.Fatal("RunParallel with canceled context should fail")
	}
	if !apperrors.IsContextError(err) {
		t.Errorf("err = %v, want a context error", err)
	}
}

func TestChunkBounds(t *testing.T) {
	tests := []struct {
		span, workers int
		want          [][2]int
	}{
		{6, 2, [][2]int{{0, 3}, {3, 6}}},
		{7, 3, [][2]int{{0, 3}, {3, 5}, {5, 7}}},
		{3, 3, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{5, 1, [][2]int{{0, 5}}},
	}
	for _, tt := range tests {
		covered := 0
		for w := 0; w < tt.workers; w++ {
			from, to := chunkBounds(tt.span, tt.workers, w)
			if from != tt.want[w][0] || to != tt.want[w][1] {
				t.Errorf("chunkBounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.span, tt.workers, w, from, to, tt.want[w][0], tt.want[w][1])
			}
			covered += to - from
		}
		if covered != tt.span {
			t.Errorf("chunks cover %d of span %d", covered, tt.span)
		}
	}
}
