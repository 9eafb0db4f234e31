package cli

import (
	"bytes"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/nearmiss/internal/config"
	"github.com/agbru/nearmiss/internal/metrics"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/progress"
	"github.com/agbru/nearmiss/internal/search"
	"github.com/agbru/nearmiss/internal/ui"
)

// MockSpinner for testing
type MockSpinner struct {
	mu       sync.Mutex
	started  int
	stopped  int
	suffixes []string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffixes = append(m.suffixes, suffix)
}

// sampleResult builds a completed search result matching the n=3, k=85 run.
func sampleResult() orchestration.SearchResult {
	return orchestration.SearchResult{
		Params: search.Params{N: 3, K: 85},
		Best: search.BestResult{
			X: 24, Y: 47, N: 3, Z: 49,
			Sum:           big.NewInt(117647),
			ComparedPower: big.NewInt(117649),
			AbsoluteMiss:  big.NewInt(2),
			RelativeMiss:  2.0 / 117647.0,
			Side:          search.SideUpper,
		},
		Checked:  5776,
		Duration: 42 * time.Millisecond,
	}
}

func configForTest() config.AppConfig {
	return config.AppConfig{N: 3, K: 85, Timeout: time.Minute, Workers: 4}
}

func TestDisplayProgress(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	mock := &MockSpinner{}
	origNewSpinner := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return mock }
	t.Cleanup(func() { newSpinner = origNewSpinner })

	updates := make(chan progress.Update, 4)
	improvements := make(chan progress.Improvement, 4)
	updates <- progress.Update{Checked: 100, Total: 400}
	updates <- progress.Update{Checked: 400, Total: 400}
	improvements <- progress.Improvement{Best: sampleResult().Best, Checked: 250, Total: 400}
	close(updates)
	close(improvements)

	var buf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, improvements, &buf)
	wg.Wait()

	if mock.started == 0 {
		t.Error("spinner was never started")
	}
	if mock.stopped == 0 {
		t.Error("spinner was never stopped")
	}
	if len(mock.suffixes) != 2 {
		t.Fatalf("suffix updates = %d, want 2", len(mock.suffixes))
	}
	if !strings.Contains(mock.suffixes[0], "25.00%") {
		t.Errorf("first suffix = %q, want 25.00%% progress", mock.suffixes[0])
	}
	if !strings.Contains(mock.suffixes[1], "100.00%") {
		t.Errorf("final suffix = %q, want 100.00%% progress", mock.suffixes[1])
	}

	got := buf.String()
	if !strings.Contains(got, "new best: x=24 y=47 z=49") {
		t.Errorf("improvement line missing, got: %q", got)
	}
	if !strings.Contains(got, "0.0017000009%") {
		t.Errorf("relative miss missing, got: %q", got)
	}
}

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	tests := []struct {
		name        string
		verbose     bool
		contains    []string
		notContains []string
	}{
		{
			name:    "standard report",
			verbose: false,
			contains: []string{
				"Smallest Relative Miss",
				"x = 24, y = 47",
				"117647",
				"117649",
				"49^3",
				"upper bracket",
				"absolute miss = 2",
				"relative miss = 0.0017000009%",
			},
			notContains: []string{"combinations in"},
		},
		{
			name:     "verbose report",
			verbose:  true,
			contains: []string{"Checked 5776 combinations in 42ms", "combinations/s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(sampleResult(), tt.verbose, &buf)

			got := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, notWant := range tt.notContains {
				if strings.Contains(got, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	var buf bytes.Buffer
	PrintExecutionConfig(configForTest(), &buf)

	got := buf.String()
	for _, want := range []string{"x^3 + y^3", "[10,85]", "5776", "Starting Search"} {
		if !strings.Contains(got, want) {
			t.Errorf("banner missing %q:\n%s", want, got)
		}
	}
}

func TestCLIColorProvider(t *testing.T) {
	ui.SetCurrentTheme(ui.DarkTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	p := CLIColorProvider{}
	if p.Red() != ui.DarkTheme.Error {
		t.Errorf("Red() = %q, want theme error color", p.Red())
	}
	if p.Yellow() != ui.DarkTheme.Warning {
		t.Errorf("Yellow() = %q, want theme warning color", p.Yellow())
	}
	if p.Reset() != ui.DarkTheme.Reset {
		t.Errorf("Reset() = %q, want theme reset code", p.Reset())
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	before := metrics.MemorySnapshot{TotalAlloc: 1 << 20, NumGC: 2}
	after := metrics.MemorySnapshot{
		HeapAlloc:    2 << 20,
		TotalAlloc:   5 << 20,
		NumGC:        5,
		PauseTotalNs: 1_500_000,
	}

	var buf bytes.Buffer
	DisplayMemoryStats(before, after, &buf)

	got := buf.String()
	for _, want := range []string{
		"Heap in use:      2.0 MiB",
		"Search allocated: 4.0 MiB",
		"Search GC cycles: 3",
		"GC pause total:   1.50ms",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("memory stats missing %q:\n%s", want, got)
		}
	}
}

func TestDisplayResult_UnderlinesHeader(t *testing.T) {
	ui.SetCurrentTheme(ui.DarkTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	var buf bytes.Buffer
	DisplayResult(sampleResult(), false, &buf)

	want := ui.DarkTheme.Underline + "--- Smallest Relative Miss ---" + ui.DarkTheme.Reset
	if !strings.Contains(buf.String(), want) {
		t.Errorf("header should carry the underline code:\n%s", buf.String())
	}
}
