package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and exercises it end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	binName := "nearmiss"
	if runtime.GOOS == "windows" {
		binName = "nearmiss.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs with the package directory as CWD; the module root is
	// two levels up.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/nearmiss")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build nearmiss: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Known Search",
			args:     []string{"-n", "3", "-k", "85", "-quiet"},
			wantOut:  "24 47 49 2 0.0017000009%",
			wantCode: 0,
		},
		{
			name:     "Full Output",
			args:     []string{"-n", "3", "-k", "20"},
			wantOut:  "smallest relative miss",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "nearmiss",
			wantCode: 0,
		},
		{
			name:     "Invalid Exponent",
			args:     []string{"-n", "2", "-k", "50"},
			wantCode: 4,
		},
		{
			name:     "Invalid Upper Bound",
			args:     []string{"-n", "3", "-k", "9"},
			wantCode: 4,
		},
		{
			name:     "Unexpected Argument",
			args:     []string{"-n", "3", "extra"},
			wantCode: 4,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-n", "11", "-k", "2000", "--timeout", "1ms", "-quiet"},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("command failed unexpectedly: %v\noutput: %s", err, outStr)
				}
			} else {
				if err == nil {
					t.Errorf("expected exit code %d, command succeeded\noutput: %s", tt.wantCode, outStr)
				} else if exitErr, ok := err.(*exec.ExitError); ok {
					if exitErr.ExitCode() != tt.wantCode {
						t.Errorf("exit code = %d, want %d\noutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
					}
				}
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
