package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cmu-roboarch/runahead-astar/internal/build"
	"github.com/cmu-roboarch/runahead-astar/internal/config"
	"github.com/cmu-roboarch/runahead-astar/internal/logparse"
	"github.com/cmu-roboarch/runahead-astar/internal/metric"
	"github.com/cmu-roboarch/runahead-astar/internal/report"
	"github.com/cmu-roboarch/runahead-astar/internal/sweep"
	"github.com/cmu-roboarch/runahead-astar/internal/trial"
	"github.com/cmu-roboarch/runahead-astar/pkg/benchreport"
	"github.com/google/uuid"
)

type Options struct {
	// SkipBuild skips the clean/build steps. The executable is still checked.
	SkipBuild bool
	// Stderr receives logs, build output and the trials' stderr. Nil means os.Stderr.
	Stderr   io.Writer
	CPUModel string
}

type Application struct {
	Config  config.Config
	Log     *slog.Logger
	SweepID string
	Builder *build.Builder
	Runner  *trial.ExecRunner
	Emitter *report.ChartEmitter

	skipBuild bool
	cpuModel  string
}

func New(cfg config.Config, opts Options) (*Application, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	id := uuid.NewString()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	})).With("sweep", id)

	builder := &build.Builder{
		Dir:         cfg.Build.Dir,
		Command:     cfg.Build.Command,
		CleanTarget: cfg.Build.CleanTarget,
		BuildTarget: cfg.Build.BuildTarget,
		Stdout:      stderr,
		Stderr:      stderr,
		Log:         log.With("component", "build"),
	}

	runner := trial.NewExecRunner(cfg.Executable, log.With("component", "trial"))
	runner.Launcher = cfg.Launcher
	runner.Timeout = cfg.TrialTimeout
	runner.Stderr = stderr

	return &Application{
		Config:    cfg,
		Log:       log,
		SweepID:   id,
		Builder:   builder,
		Runner:    runner,
		Emitter:   report.NewChartEmitter(cfg.Output.Dir, cfg.Output.Prefix),
		skipBuild: opts.SkipBuild,
		cpuModel:  opts.CPUModel,
	}, nil
}

// Prepare rebuilds the executable when enabled and checks that it exists.
func (a *Application) Prepare(ctx context.Context) error {
	if a.Config.Build.Enabled && !a.skipBuild {
		if err := a.Builder.Run(ctx); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	} else {
		a.Log.InfoContext(ctx, "skipping build")
	}
	if err := build.CheckExecutable(a.Config.Executable); err != nil {
		return fmt.Errorf("precondition: %w", err)
	}
	return nil
}

func (a *Application) Plan() (sweep.Plan, error) {
	p, err := sweep.NewPlan(a.Config)
	if err != nil {
		return sweep.Plan{}, fmt.Errorf("precondition: %w", err)
	}
	return p, nil
}

// CommandLines lists every trial command line of the plan in execution order.
func (a *Application) CommandLines(p sweep.Plan) [][]string {
	out := make([][]string, 0, p.Trials())
	for _, m := range p.Maps {
		for _, w := range p.Weights {
			for _, t := range p.Threads {
				cfg := p.Trial(m, w, t)
				out = append(out,
					a.Runner.CommandLine(cfg),
					a.Runner.CommandLine(cfg.WithSpeculation()),
				)
			}
		}
	}
	return out
}

// Run prepares the executable, then sweeps the whole plan. On failure the
// returned report holds the groups that completed before the error.
func (a *Application) Run(ctx context.Context) (*benchreport.SweepReport, error) {
	if err := a.Prepare(ctx); err != nil {
		return nil, err
	}
	plan, err := a.Plan()
	if err != nil {
		return nil, err
	}
	a.Log.InfoContext(ctx, "sweep planned",
		"maps", len(plan.Maps),
		"weights", plan.Weights,
		"threads", plan.Threads,
		"trials", plan.Trials(),
	)

	rep := benchreport.NewSweepReport(benchreport.ReportParams{
		Executable:    a.Config.Executable,
		Launcher:      a.Config.Launcher,
		Maps:          plan.Maps,
		Weights:       plan.Weights,
		Threads:       plan.Threads,
		NumTests:      plan.NumTests,
		MaxExpansions: plan.MaxExpansions,
	}, a.cpuModel, time.Now())
	rep.ID = a.SweepID

	ctrl := sweep.NewController(plan, a.Runner, a.Emitter, a.Log)
	groups, err := ctrl.Run(ctx)
	rep.Groups = groups
	rep.Finish(time.Now())
	if err != nil {
		return rep, err
	}
	a.Log.InfoContext(ctx, "sweep finished", "groups", len(groups), "trials", ctrl.Metrics().Completed)
	return rep, nil
}

// Stage names the pipeline stage an error came from.
func Stage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, sweep.ErrNoMaps),
		errors.Is(err, build.ErrMissingExecutable),
		errors.Is(err, build.ErrExecutableIsFolder):
		return "precondition"
	case errors.Is(err, build.ErrBuildFailed):
		return "build"
	case errors.Is(err, trial.ErrNonZeroExit), errors.Is(err, context.DeadlineExceeded):
		return "trial"
	case errors.Is(err, logparse.ErrNoExecTime):
		return "parse"
	case errors.Is(err, metric.ErrLengthMismatch), errors.Is(err, metric.ErrZeroBaseline):
		return "aggregation"
	case errors.Is(err, report.ErrAxisMismatch):
		return "emit"
	default:
		return "unknown"
	}
}
