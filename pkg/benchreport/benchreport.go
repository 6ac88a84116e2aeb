package benchreport

// TrialPoint is one thread count of a group: both timings and their ratio.
type TrialPoint struct {
	Threads            int     `json:"threads"`
	BaselineSeconds    float64 `json:"baseline_seconds"`
	SpeculativeSeconds float64 `json:"speculative_seconds"`
	Normalized         float64 `json:"normalized"`
}

// GroupReport holds the results of one (map, weight) group.
type GroupReport struct {
	Signature string  `json:"signature"`
	Map       string  `json:"map"`
	Weight    float64 `json:"weight"`
	NumTests  int     `json:"num_tests"`
	// Series are aligned with Threads
	Threads     []int     `json:"threads"`
	Baseline    []float64 `json:"baseline_seconds"`
	Speculative []float64 `json:"speculative_seconds"`
	Normalized  []float64 `json:"normalized"`
	ChartPath   string    `json:"chart_path"`
}

// Points zips the group series into per-thread-count points.
func (g GroupReport) Points() []TrialPoint {
	n := min(len(g.Threads), len(g.Baseline), len(g.Speculative), len(g.Normalized))
	out := make([]TrialPoint, n)
	for i := range n {
		out[i] = TrialPoint{
			Threads:            g.Threads[i],
			BaselineSeconds:    g.Baseline[i],
			SpeculativeSeconds: g.Speculative[i],
			Normalized:         g.Normalized[i],
		}
	}
	return out
}

// Best returns the point with the lowest normalized ratio, i.e. where the
// speculative run gained the most. Ties go to fewer threads.
func (g GroupReport) Best() (TrialPoint, bool) {
	points := g.Points()
	if len(points) == 0 {
		return TrialPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Normalized < best.Normalized {
			best = p
		}
	}
	return best, true
}
