// Package build drives the external build system that produces the
// benchmarked executable.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

var (
	ErrBuildFailed        = errors.New("build step failed")
	ErrMissingExecutable  = errors.New("executable not found after build")
	ErrExecutableIsFolder = errors.New("executable path is a directory")
)

type Builder struct {
	Dir         string
	Command     string
	CleanTarget string
	BuildTarget string
	// Stdout and Stderr receive the build output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	Log    *slog.Logger
}

// Run cleans and rebuilds. Both steps must exit with status zero.
func (b *Builder) Run(ctx context.Context) error {
	b.Log.InfoContext(ctx, "cleaning the object files if any", "command", b.Command, "target", b.CleanTarget)
	if err := b.step(ctx, b.CleanTarget); err != nil {
		return err
	}
	b.Log.InfoContext(ctx, "building the code", "command", b.Command, "target", b.BuildTarget)
	return b.step(ctx, b.BuildTarget)
}

func (b *Builder) step(ctx context.Context, target string) error {
	args := strings.Fields(target)
	cmd := exec.CommandContext(ctx, b.Command, args...)
	cmd.Dir = b.Dir
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", b.Command, target, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrBuildFailed, b.Command, target, err)
	}
	return nil
}

// CheckExecutable verifies that path names an existing regular file.
func CheckExecutable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingExecutable, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s", ErrExecutableIsFolder, path)
	}
	return nil
}
