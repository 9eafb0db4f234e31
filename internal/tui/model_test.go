package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/nearmiss/internal/config"
	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/search"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.AppConfig{N: 3, K: 85, Timeout: time.Minute, Workers: 1, ProgressInterval: 1000}
	m := NewModel(context.Background(), cfg, "test")
	t.Cleanup(m.cancel)
	return m
}

func updateModel(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func TestModel_WindowSizeLaysOutPanels(t *testing.T) {
	m := testModel(t)
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.width != 120 || m.height != 40 {
		t.Errorf("size = (%d,%d), want (120,40)", m.width, m.height)
	}
	if m.logsWidth()+m.rightWidth() != 120 {
		t.Errorf("panel widths %d+%d should fill the terminal",
			m.logsWidth(), m.rightWidth())
	}
}

func TestModel_ImprovementUpdatesLogAndMetrics(t *testing.T) {
	m := testModel(t)
	m = updateModel(t, m, ImprovementMsg{Best: testBest(), Checked: 250, Total: 5776})

	if m.metrics.best == nil {
		t.Fatal("metrics panel did not record the best result")
	}
	if m.metrics.best.X != 24 {
		t.Errorf("best.X = %d, want 24", m.metrics.best.X)
	}
	if len(m.logs.entries) < 2 {
		t.Errorf("log entries = %d, want config line plus improvement", len(m.logs.entries))
	}
}

func TestModel_PauseDropsProgress(t *testing.T) {
	m := testModel(t)
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !m.paused {
		t.Fatal("model should be paused after 'p'")
	}

	m = updateModel(t, m, ProgressMsg{Checked: 100, Total: 400, Fraction: 0.25})
	if m.metrics.checked != 0 {
		t.Error("paused model should drop progress updates")
	}

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.paused {
		t.Error("second 'p' should resume")
	}
}

func TestModel_SearchComplete(t *testing.T) {
	t.Run("matching generation finishes the session", func(t *testing.T) {
		m := testModel(t)
		m = updateModel(t, m, SearchCompleteMsg{ExitCode: apperrors.ExitSuccess, Generation: 0})

		if !m.done {
			t.Error("model should be done")
		}
		if m.exitCode != apperrors.ExitSuccess {
			t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitSuccess)
		}
	})

	t.Run("stale generation is ignored", func(t *testing.T) {
		m := testModel(t)
		m = updateModel(t, m, SearchCompleteMsg{ExitCode: apperrors.ExitErrorGeneric, Generation: 7})

		if m.done {
			t.Error("stale completion should not finish the session")
		}
	})
}

func TestModel_ErrorMsg(t *testing.T) {
	m := testModel(t)
	m = updateModel(t, m, ErrorMsg{Err: errors.New("boom"), Duration: time.Second})

	if !m.done {
		t.Error("model should be done after an error")
	}
	if !m.footer.failed {
		t.Error("footer should show the error state")
	}
}

func TestModel_ResetStartsNewGeneration(t *testing.T) {
	m := testModel(t)
	m = updateModel(t, m, SearchCompleteMsg{ExitCode: apperrors.ExitSuccess, Generation: 0})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)

	if m.generation != 1 {
		t.Errorf("generation = %d, want 1", m.generation)
	}
	if m.done {
		t.Error("reset should clear the done flag")
	}
	if cmd == nil {
		t.Error("reset should schedule a new search")
	}
	if len(m.logs.entries) != 1 {
		t.Errorf("log should be reset to the config line, got %d entries", len(m.logs.entries))
	}
}

func TestModel_View(t *testing.T) {
	m := testModel(t)

	if got := m.View(); got != "Initializing..." {
		t.Errorf("zero-size view = %q, want Initializing...", got)
	}

	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updateModel(t, m, ImprovementMsg{Best: testBest(), Checked: 10, Total: 5776})

	view := m.View()
	if !strings.Contains(view, "Near Miss Monitor") {
		t.Error("view should contain the header title")
	}
	if !strings.Contains(view, "Improvements") {
		t.Error("view should contain the log panel title")
	}
}

func TestModel_FinalResult(t *testing.T) {
	m := testModel(t)
	res := orchestration.SearchResult{
		Params:   search.Params{N: 3, K: 85},
		Best:     testBest(),
		Checked:  5776,
		Duration: time.Second,
	}
	m = updateModel(t, m, FinalResultMsg{Result: res})

	if m.metrics.best == nil || m.metrics.best.Y != 47 {
		t.Error("final result should update the metrics panel")
	}
}
