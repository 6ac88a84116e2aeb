// Package report renders normalized-performance charts.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrAxisMismatch = errors.New("series and thread axis differ in length")

type Emitter interface {
	// Emit persists one chart and returns the path it was written to.
	Emit(series []float64, threads []int, signature string) (string, error)
}

type ChartEmitter struct {
	Dir    string
	Prefix string
	Width  vg.Length
	Height vg.Length
}

func NewChartEmitter(dir, prefix string) *ChartEmitter {
	return &ChartEmitter{
		Dir:    dir,
		Prefix: prefix,
		Width:  6 * vg.Inch,
		Height: 4 * vg.Inch,
	}
}

// Render builds a fresh plot: thread counts as categorical x ticks, the
// normalized series as a single line in axis order.
func (e *ChartEmitter) Render(series []float64, threads []int, signature string) (*plot.Plot, error) {
	if len(series) != len(threads) {
		return nil, fmt.Errorf("%w: %d points for %d thread counts", ErrAxisMismatch, len(series), len(threads))
	}
	if len(series) == 0 {
		return nil, errors.New("empty series")
	}

	p := plot.New()
	p.Title.Text = signature
	p.X.Label.Text = "threads"
	p.Y.Label.Text = "normalized performance (speculative / baseline)"

	pts := make(plotter.XYs, len(series))
	for i, v := range series {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	line.Color = color.RGBA{0, 114, 178, 255}
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = line.Color
	p.Add(line, points, plotter.NewGrid())

	p.X.Tick.Marker = plot.ConstantTicks(lo.Map(threads, func(t int, i int) plot.Tick {
		return plot.Tick{Value: float64(i), Label: strconv.Itoa(t)}
	}))
	p.X.Min = -0.5
	p.X.Max = float64(len(threads)) - 0.5

	return p, nil
}

func (e *ChartEmitter) Emit(series []float64, threads []int, signature string) (string, error) {
	p, err := e.Render(series, threads, signature)
	if err != nil {
		return "", err
	}
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(e.Dir, FileName(e.Prefix, signature))
	if err := p.Save(e.Width, e.Height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	return path, nil
}

var _ Emitter = (*ChartEmitter)(nil)
