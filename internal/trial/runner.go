package trial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/cmu-roboarch/runahead-astar/internal/logparse"
)

var ErrNonZeroExit = errors.New("trial exited with non-zero status")

// waitDelay bounds how long Wait keeps draining pipes after the child was killed.
const waitDelay = 5 * time.Second

type Runner interface {
	// Run executes one trial and returns its execution time in seconds.
	Run(ctx context.Context, cfg Config) (float64, error)
}

type ExecRunner struct {
	Executable string
	// Launcher, if set, wraps the executable (e.g. []string{"taskset", "-c", "0-15"}).
	Launcher []string
	// Stderr receives the child's stderr. Nil discards it.
	Stderr io.Writer
	// Timeout of zero means no limit.
	Timeout time.Duration
	Log     *slog.Logger
}

func NewExecRunner(executable string, log *slog.Logger) *ExecRunner {
	return &ExecRunner{
		Executable: executable,
		Log:        log,
	}
}

// CommandLine returns the argv used for cfg, launcher included.
func (r *ExecRunner) CommandLine(cfg Config) []string {
	argv := make([]string, 0, len(r.Launcher)+6)
	argv = append(argv, r.Launcher...)
	argv = append(argv, r.Executable)
	return append(argv, cfg.Args()...)
}

// Output runs the executable once and returns its full stdout.
// The child is killed if ctx is cancelled or the timeout expires.
func (r *ExecRunner) Output(ctx context.Context, cfg Config) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := r.CommandLine(cfg)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = waitDelay
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr

	cmdLine := strings.Join(argv, " ")
	r.logger().Debug("starting trial", "cmd", cmdLine)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", cmdLine, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: exit status %d", ErrNonZeroExit, cmdLine, exitErr.ExitCode())
		}
		return nil, fmt.Errorf("run %s: %w", cmdLine, err)
	}

	r.logger().Debug("trial finished", "cmd", cmdLine, "wall", elapsed, "stdout_bytes", stdout.Len())
	return stdout.Bytes(), nil
}

func (r *ExecRunner) Run(ctx context.Context, cfg Config) (float64, error) {
	out, err := r.Output(ctx, cfg)
	if err != nil {
		return 0, err
	}
	v, err := logparse.ExecTime(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.Join(r.CommandLine(cfg), " "), err)
	}
	return v, nil
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Log
}

var _ Runner = (*ExecRunner)(nil)
