package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "./xyplan.out", c.Executable)
	assert.Equal(t, []float64{1}, c.Weights)
	assert.Equal(t, 10, c.NumTests)
	assert.Equal(t, 4, c.Threads.MaxExponent)
	assert.Equal(t, "make", c.Build.Command)
	assert.Equal(t, "clean", c.Build.CleanTarget)
	assert.Equal(t, "performance", c.Build.BuildTarget)
	assert.Equal(t, "rastar_perf", c.Output.Prefix)
}

func TestLoad(t *testing.T) {
	t.Run("overlays defaults", func(t *testing.T) {
		path := writeConfig(t, `
maps:
  - "input-obs/*"
weights: [1, 2, 4]
num_tests: 3
trial_timeout: 90s
launcher: [taskset, -c, 0-15]
build:
  enabled: false
`)
		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"input-obs/*"}, c.Maps)
		assert.Equal(t, []float64{1, 2, 4}, c.Weights)
		assert.Equal(t, 3, c.NumTests)
		assert.Equal(t, 90*time.Second, c.TrialTimeout)
		assert.Equal(t, []string{"taskset", "-c", "0-15"}, c.Launcher)
		assert.False(t, c.Build.Enabled)
		// untouched keys keep their defaults
		assert.Equal(t, "./xyplan.out", c.Executable)
		assert.Equal(t, 4, c.Threads.MaxExponent)
		assert.Equal(t, "make", c.Build.Command)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "weights: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "num_tests: 0\nweights: [-1]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "num_tests must be positive")
		assert.Contains(t, err.Error(), "weight must be positive")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no executable", func(c *Config) { c.Executable = " " }, "executable is required"},
		{"no maps", func(c *Config) { c.Maps = nil }, "map pattern"},
		{"no weights", func(c *Config) { c.Weights = nil }, "weight is required"},
		{"exponent too small", func(c *Config) { c.Threads.MaxExponent = 0 }, "max_exponent"},
		{"negative timeout", func(c *Config) { c.TrialTimeout = -time.Second }, "trial_timeout"},
		{"no build command", func(c *Config) { c.Build.Command = "" }, "build.command"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("build command not needed when disabled", func(t *testing.T) {
		c := Default()
		c.Build.Enabled = false
		c.Build.Command = ""
		assert.NoError(t, c.Validate())
	})
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = ParseLevel("trace")
	assert.Error(t, err)
}
