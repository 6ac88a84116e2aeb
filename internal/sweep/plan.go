package sweep

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/cmu-roboarch/runahead-astar/internal/config"
	"github.com/cmu-roboarch/runahead-astar/internal/trial"
	"github.com/samber/lo"
)

var ErrNoMaps = errors.New("no input map files matched")

// Plan is the immutable parameter grid of one sweep. It is built once at
// startup; nothing mutates it afterwards.
type Plan struct {
	Maps          []string
	Weights       []float64
	Threads       []int
	NumTests      int
	MaxExpansions uint64
}

// NewPlan expands the map patterns and generates the thread axis.
func NewPlan(cfg config.Config) (Plan, error) {
	maps, err := DiscoverMaps(cfg.Maps)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Maps:          maps,
		Weights:       slices.Clone(cfg.Weights),
		Threads:       ThreadAxis(cfg.Threads.MaxExponent),
		NumTests:      cfg.NumTests,
		MaxExpansions: cfg.MaxExpansions,
	}, nil
}

// DiscoverMaps resolves glob patterns against the working directory. The
// result is deduplicated and sorted so that sweeps run in a stable order.
func DiscoverMaps(patterns []string) ([]string, error) {
	var found []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		found = append(found, matches...)
	}
	found = lo.Uniq(lo.Map(found, func(p string, _ int) string { return filepath.Clean(p) }))
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoMaps, patterns)
	}
	slices.Sort(found)
	return found, nil
}

// ThreadAxis returns 2^1 .. 2^maxExponent in ascending order.
func ThreadAxis(maxExponent int) []int {
	axis := make([]int, 0, max(maxExponent, 0))
	for i := 1; i <= maxExponent; i++ {
		axis = append(axis, 1<<i)
	}
	return axis
}

// Trials returns the number of trials the plan runs: two per grid point.
func (p Plan) Trials() int {
	return 2 * len(p.Maps) * len(p.Weights) * len(p.Threads)
}

// Trial builds the baseline configuration for one grid point.
func (p Plan) Trial(mapPath string, weight float64, threads int) trial.Config {
	return trial.Config{
		Map:           mapPath,
		NumTests:      p.NumTests,
		Weight:        weight,
		Threads:       threads,
		MaxExpansions: p.MaxExpansions,
	}
}
