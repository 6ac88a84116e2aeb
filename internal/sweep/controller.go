// Package sweep enumerates the (map, weight, threads) grid and drives paired
// baseline/speculative trials over it.
package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmu-roboarch/runahead-astar/internal/metric"
	"github.com/cmu-roboarch/runahead-astar/internal/monitor"
	"github.com/cmu-roboarch/runahead-astar/internal/report"
	"github.com/cmu-roboarch/runahead-astar/internal/trial"
	"github.com/cmu-roboarch/runahead-astar/pkg/benchreport"
)

type Controller struct {
	plan    Plan
	runner  trial.Runner
	emitter report.Emitter
	monitor *monitor.TrialMonitor
	log     *slog.Logger
}

func NewController(
	plan Plan,
	runner trial.Runner,
	emitter report.Emitter,
	log *slog.Logger,
) *Controller {
	return &Controller{
		plan:    plan,
		runner:  runner,
		emitter: emitter,
		monitor: monitor.NewTrialMonitor(int64(plan.Trials())),
		log:     log.With("component", "sweep"),
	}
}

func (c *Controller) Plan() Plan { return c.plan }

// Metrics reports sweep progress.
func (c *Controller) Metrics() monitor.TrialMetrics { return c.monitor.GetMetrics() }

// Run sweeps every (map, weight) group in order. The first error aborts the
// sweep; groups finished before it are returned alongside the error.
func (c *Controller) Run(ctx context.Context) ([]benchreport.GroupReport, error) {
	var groups []benchreport.GroupReport
	for _, mapPath := range c.plan.Maps {
		for _, w := range c.plan.Weights {
			g, err := c.RunGroup(ctx, mapPath, w)
			if err != nil {
				return groups, err
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// RunGroup runs the baseline and speculative trial for every thread count,
// then normalizes and emits the chart for the group.
func (c *Controller) RunGroup(ctx context.Context, mapPath string, weight float64) (benchreport.GroupReport, error) {
	sig := report.Signature(mapPath, c.plan.NumTests, weight)
	log := c.log.With("signature", sig)

	baseline := make([]float64, 0, len(c.plan.Threads))
	speculative := make([]float64, 0, len(c.plan.Threads))
	for _, t := range c.plan.Threads {
		cfg := c.plan.Trial(mapPath, weight, t)

		log.InfoContext(ctx, "running trial", "threads", t, "speculation", false, "progress", c.progress())
		b, err := c.runTrial(ctx, cfg)
		if err != nil {
			return benchreport.GroupReport{}, err
		}
		baseline = append(baseline, b)

		log.InfoContext(ctx, "running trial", "threads", t, "speculation", true, "progress", c.progress())
		s, err := c.runTrial(ctx, cfg.WithSpeculation())
		if err != nil {
			return benchreport.GroupReport{}, err
		}
		speculative = append(speculative, s)

		log.DebugContext(ctx, "trial pair done", "threads", t, "baseline_s", b, "speculative_s", s)
	}

	norm, err := metric.Normalize(baseline, speculative)
	if err != nil {
		return benchreport.GroupReport{}, fmt.Errorf("aggregate %s: %w", sig, err)
	}
	log.InfoContext(ctx, "RA*'s normalized performance", "threads", c.plan.Threads, "normalized", norm)

	path, err := c.emitter.Emit(norm, c.plan.Threads, sig)
	if err != nil {
		return benchreport.GroupReport{}, fmt.Errorf("emit chart for %s: %w", sig, err)
	}
	log.InfoContext(ctx, "chart saved", "path", path, "sweep_pct", fmt.Sprintf("%.0f", c.Metrics().Percent()))

	return benchreport.GroupReport{
		Signature:   sig,
		Map:         mapPath,
		Weight:      weight,
		NumTests:    c.plan.NumTests,
		Threads:     append([]int(nil), c.plan.Threads...),
		Baseline:    baseline,
		Speculative: speculative,
		Normalized:  norm,
		ChartPath:   path,
	}, nil
}

func (c *Controller) runTrial(ctx context.Context, cfg trial.Config) (float64, error) {
	var v float64
	err := c.monitor.Do(func() error {
		var err error
		v, err = c.runner.Run(ctx, cfg)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("trial threads=%d speculation=%t: %w", cfg.Threads, cfg.Speculation, err)
	}
	return v, nil
}

func (c *Controller) progress() string {
	m := c.monitor.GetMetrics()
	return fmt.Sprintf("%d/%d", m.Completed+1, m.Planned)
}
