package scripts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/seopilot/seopilot/internal/config"
	"github.com/seopilot/seopilot/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestRunner writes shell scripts standing in for the Node.js scripts and
// runs them with /bin/sh. Each script records its arguments in $ARGS_OUT.
func newTestRunner(t *testing.T, body string) (*Runner, string) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "args.txt")
	t.Setenv("ARGS_OUT", out)

	cfg := config.ScriptsConfig{
		Node:            "/bin/sh",
		Dir:             dir,
		CreateLanding:   "create-insurance-landing.js",
		OptimizeLanding: "optimize-landing.js",
		FixTechIssues:   "fix-tech-issues.js",
	}
	script := "printf '%s\\n' \"$@\" > \"$ARGS_OUT\"\n" + body
	for _, name := range []string{cfg.CreateLanding, cfg.OptimizeLanding, cfg.FixTechIssues} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0644); err != nil {
			t.Fatalf("write script: %v", err)
		}
	}

	r := NewRunner(cfg, nil)
	r.waitDelay = 100 * time.Millisecond
	return r, out
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRunner_Arguments(t *testing.T) {
	pos := 12
	tests := []struct {
		name string
		call func(r *Runner) error
		want []string
	}{
		{
			name: "create page",
			call: func(r *Runner) error {
				return r.CreatePage(context.Background(), "Cigna", "psychiatrist-orlando-takes-cigna")
			},
			want: []string{"--provider", "Cigna", "--slug", "psychiatrist-orlando-takes-cigna"},
		},
		{
			name: "optimize page",
			call: func(r *Runner) error {
				return r.OptimizePage(context.Background(), "https://example.com/a/", "psychiatry orlando", &pos)
			},
			want: []string{"--url", "https://example.com/a/", "--query", "psychiatry orlando", "--position", "12"},
		},
		{
			name: "fix issues",
			call: func(r *Runner) error {
				return r.FixIssues(context.Background(), "https://example.com/a/", "missing canonical")
			},
			want: []string{"--url", "https://example.com/a/", "--issues", "missing canonical"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRunner(t, "exit 0\n")

			if err := tt.call(r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := readArgs(t, out)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	r, _ := newTestRunner(t, "echo 'page not found' >&2\nexit 3\n")

	err := r.FixIssues(context.Background(), "https://example.com/a/", "x")

	var invErr *errors.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *InvocationError", err)
	}
	if invErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", invErr.ExitCode)
	}
	if invErr.Stderr != "page not found" {
		t.Errorf("Stderr = %q", invErr.Stderr)
	}
	if invErr.Operation != OpFixTechIssues {
		t.Errorf("Operation = %q", invErr.Operation)
	}
	if !errors.Is(err, errors.ErrInvocationFailed) {
		t.Error("expected errors.Is(err, ErrInvocationFailed)")
	}
}

func TestRunner_Deadline(t *testing.T) {
	r, _ := newTestRunner(t, "exec sleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.CreatePage(ctx, "UMR", "psychiatrist-orlando-takes-umr")
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("deadline not honored, took %v", elapsed)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded in chain", err)
	}
	if !errors.Is(err, errors.ErrInvocationFailed) {
		t.Errorf("error = %v, want ErrInvocationFailed", err)
	}
}

func TestRunner_MissingInterpreter(t *testing.T) {
	r := NewRunner(config.ScriptsConfig{
		Node:          filepath.Join(t.TempDir(), "no-such-node"),
		Dir:           "scripts",
		CreateLanding: "create-insurance-landing.js",
	}, nil)

	err := r.CreatePage(context.Background(), "Cigna", "psychiatrist-orlando-takes-cigna")

	var invErr *errors.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *InvocationError", err)
	}
	if invErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 when the process never ran", invErr.ExitCode)
	}
}

func TestRunner_Command(t *testing.T) {
	r := NewRunner(config.ScriptsConfig{Node: "node", Dir: "scripts", OptimizeLanding: "optimize-landing.js"}, nil)

	got := strings.Join(r.Command(OpOptimizeLanding, "--url", "u"), " ")
	if want := "node scripts/optimize-landing.js --url u"; got != want {
		t.Errorf("Command() = %q, want %q", got, want)
	}
}
