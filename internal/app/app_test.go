package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/cmu-roboarch/runahead-astar/internal/build"
	"github.com/cmu-roboarch/runahead-astar/internal/config"
	"github.com/cmu-roboarch/runahead-astar/internal/logparse"
	"github.com/cmu-roboarch/runahead-astar/internal/metric"
	"github.com/cmu-roboarch/runahead-astar/internal/sweep"
	"github.com/cmu-roboarch/runahead-astar/internal/trial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planner = `#!/bin/sh
for a in "$@"; do
  [ "$a" = "--speculation" ] && { echo "execTime: 3"; exit 0; }
done
echo "execTime: 4"
`

// workspace lays out a project directory with a fake make that produces
// the planner on its build target, and one input map.
func workspace(t *testing.T) config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planner.sh"), []byte(planner), 0o755))
	makeScript := `#!/bin/sh
case "$1" in
  clean) rm -f xyplan.out ;;
  performance) cp planner.sh xyplan.out ;;
esac
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake-make"), []byte(makeScript), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "input-obs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input-obs", "Boston_1024_1024_d001.obs"), nil, 0o644))

	cfg := config.Default()
	cfg.Executable = filepath.Join(dir, "xyplan.out")
	cfg.Maps = []string{filepath.Join(dir, "input-obs", "*.obs")}
	cfg.Threads.MaxExponent = 2
	cfg.Build.Dir = dir
	cfg.Build.Command = filepath.Join(dir, "fake-make")
	cfg.Output.Dir = filepath.Join(dir, "charts")
	return cfg
}

func newApp(t *testing.T, cfg config.Config, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	opts.Stderr = &logs
	a, err := New(cfg, opts)
	require.NoError(t, err)
	return a, &logs
}

func TestNew_RejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestApplication_Run(t *testing.T) {
	cfg := workspace(t)
	a, logs := newApp(t, cfg, Options{CPUModel: "test cpu"})

	rep, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.SweepID, rep.ID)
	assert.Equal(t, "test cpu", rep.Env.CPUModel)
	assert.Equal(t, []int{2, 4}, rep.Params.Threads)
	require.Len(t, rep.Groups, 1)

	g := rep.Groups[0]
	assert.Equal(t, "map:Boston_1024_1024_d001.obs numTests:10 weight:1", g.Signature)
	assert.InDeltaSlice(t, []float64{0.75, 0.75}, g.Normalized, 1e-9)
	assert.FileExists(t, g.ChartPath)
	assert.NotEmpty(t, rep.FinishedRFC3339)

	out := logs.String()
	assert.Contains(t, out, "building the code")
	assert.Contains(t, out, "sweep="+a.SweepID)
	assert.Contains(t, out, "RA*'s normalized performance")
}

func TestApplication_SkipBuildStillChecksExecutable(t *testing.T) {
	cfg := workspace(t)
	a, logs := newApp(t, cfg, Options{SkipBuild: true})

	_, err := a.Run(context.Background())
	require.ErrorIs(t, err, build.ErrMissingExecutable)
	assert.Equal(t, "precondition", Stage(err))
	assert.NotContains(t, logs.String(), "building the code")
}

func TestApplication_BuildRunsBeforeMapCheck(t *testing.T) {
	cfg := workspace(t)
	cfg.Maps = []string{filepath.Join(t.TempDir(), "*.obs")}
	a, logs := newApp(t, cfg, Options{})

	_, err := a.Run(context.Background())
	require.ErrorIs(t, err, sweep.ErrNoMaps)
	assert.Contains(t, logs.String(), "building the code")
	assert.FileExists(t, cfg.Executable)
}

func TestApplication_CommandLines(t *testing.T) {
	cfg := workspace(t)
	cfg.Launcher = []string{"taskset", "-c", "0-3"}
	a, _ := newApp(t, cfg, Options{})

	p, err := a.Plan()
	require.NoError(t, err)
	lines := a.CommandLines(p)
	require.Len(t, lines, p.Trials())

	first := strings.Join(lines[0], " ")
	assert.True(t, strings.HasPrefix(first, "taskset -c 0-3 "+cfg.Executable+" --map="), first)
	assert.Equal(t, append(slices.Clone(lines[0]), "--speculation"), lines[1])
	assert.Contains(t, strings.Join(lines[3], " "), "--threads=4 --speculation")
}

func TestStage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("precondition: %w", sweep.ErrNoMaps), "precondition"},
		{fmt.Errorf("build: %w", build.ErrBuildFailed), "build"},
		{fmt.Errorf("trial threads=4: %w", trial.ErrNonZeroExit), "trial"},
		{fmt.Errorf("trial threads=4: %w", context.DeadlineExceeded), "trial"},
		{fmt.Errorf("trial threads=4: %w", logparse.ErrNoExecTime), "parse"},
		{fmt.Errorf("aggregate: %w", metric.ErrZeroBaseline), "aggregation"},
		{fmt.Errorf("trial: %w", context.Canceled), "interrupted"},
		{errors.New("disk on fire"), "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stage(tc.err), "%v", tc.err)
	}
}
