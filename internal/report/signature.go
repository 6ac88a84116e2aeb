package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cmu-roboarch/runahead-astar/internal/trial"
)

// Signature identifies one (map, weight) experiment group, e.g.
// "map:Boston_1024_1024_d001.obs numTests:10 weight:1".
func Signature(mapPath string, numTests int, weight float64) string {
	return fmt.Sprintf("map:%s numTests:%d weight:%s", filepath.Base(mapPath), numTests, trial.FormatWeight(weight))
}

var fileNameReplacer = strings.NewReplacer(
	" ", "_",
	":", "",
	"/", "_",
	"\\", "_",
)

// FileName derives the chart file name from a signature. The same signature
// always yields the same name, so re-runs overwrite earlier charts.
func FileName(prefix, signature string) string {
	name := fileNameReplacer.Replace(strings.TrimSpace(signature)) + ".png"
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
