package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Executable is the benchmarked binary produced by the build step.
	Executable string `yaml:"executable"`
	// Launcher is prepended to every trial command line (e.g. taskset, numactl).
	Launcher []string `yaml:"launcher"`

	Maps     []string  `yaml:"maps"`
	Weights  []float64 `yaml:"weights"`
	NumTests int       `yaml:"num_tests"`
	// MaxExpansions is passed as --max-exps when positive.
	MaxExpansions uint64 `yaml:"max_exps"`

	Threads struct {
		MaxExponent int `yaml:"max_exponent"`
	} `yaml:"threads"`

	// TrialTimeout of zero means a trial may run forever.
	TrialTimeout time.Duration `yaml:"trial_timeout"`

	Build struct {
		Enabled     bool   `yaml:"enabled"`
		Dir         string `yaml:"dir"`
		Command     string `yaml:"command"`
		CleanTarget string `yaml:"clean_target"`
		BuildTarget string `yaml:"build_target"`
	} `yaml:"build"`

	Output struct {
		Dir    string `yaml:"dir"`
		Prefix string `yaml:"prefix"`
	} `yaml:"output"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default mirrors the parameters the RA* experiments were published with.
func Default() Config {
	var c Config
	c.Executable = "./xyplan.out"
	c.Maps = []string{"input-obs/Boston_1024_1024_d001.obs"}
	c.Weights = []float64{1}
	c.NumTests = 10
	c.Threads.MaxExponent = 4
	c.Build.Enabled = true
	c.Build.Dir = "."
	c.Build.Command = "make"
	c.Build.CleanTarget = "clean"
	c.Build.BuildTarget = "performance"
	c.Output.Dir = "."
	c.Output.Prefix = "rastar_perf"
	c.Log.Level = "info"
	return c
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Executable) == "" {
		errs = append(errs, errors.New("executable is required"))
	}
	if len(c.Maps) == 0 {
		errs = append(errs, errors.New("at least one map pattern is required"))
	}
	if len(c.Weights) == 0 {
		errs = append(errs, errors.New("at least one weight is required"))
	}
	for _, w := range c.Weights {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("weight must be positive, got %v", w))
		}
	}
	if c.NumTests <= 0 {
		errs = append(errs, fmt.Errorf("num_tests must be positive, got %d", c.NumTests))
	}
	// 2^1 is the first point of the axis; anything past 2^16 threads is a typo.
	if c.Threads.MaxExponent < 1 || c.Threads.MaxExponent > 16 {
		errs = append(errs, fmt.Errorf("threads.max_exponent must be in [1, 16], got %d", c.Threads.MaxExponent))
	}
	if c.TrialTimeout < 0 {
		errs = append(errs, fmt.Errorf("trial_timeout must not be negative, got %s", c.TrialTimeout))
	}
	if c.Build.Enabled && strings.TrimSpace(c.Build.Command) == "" {
		errs = append(errs, errors.New("build.command is required when build is enabled"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps the config log level onto slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
