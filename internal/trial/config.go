package trial

import (
	"strconv"
)

// Config fully determines one invocation of the benchmarked executable.
type Config struct {
	Map      string
	NumTests int
	Weight   float64
	Threads  int
	// MaxExpansions is omitted from the command line when zero.
	MaxExpansions uint64
	Speculation   bool
}

// WithSpeculation returns a copy of c with speculation enabled.
func (c Config) WithSpeculation() Config {
	c.Speculation = true
	return c
}

// Args renders the executable flags. The speculation flag always comes last
// so that a speculative trial differs from its baseline by exactly one flag.
func (c Config) Args() []string {
	args := []string{
		"--map=" + c.Map,
		"--num-tests=" + strconv.Itoa(c.NumTests),
		"--weight=" + FormatWeight(c.Weight),
		"--threads=" + strconv.Itoa(c.Threads),
	}
	if c.MaxExpansions > 0 {
		args = append(args, "--max-exps="+strconv.FormatUint(c.MaxExpansions, 10))
	}
	if c.Speculation {
		args = append(args, "--speculation")
	}
	return args
}

// FormatWeight prints the shortest decimal form, so 1 renders as "1" and 2.5 as "2.5".
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
