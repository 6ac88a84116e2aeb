package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cmu-roboarch/runahead-astar/pkg/benchreport"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Choice is the best thread count of one group in one sweep report.
type Choice struct {
	Path     string
	CPUModel string
	Group    benchreport.GroupReport
	Best     benchreport.TrialPoint
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir        string
		maxResults int
	)
	cmd := &cobra.Command{
		Use:           "choose",
		Short:         "Rank the best RA* thread count per map and weight from sweep reports",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := loadReports(dir)
			if err != nil {
				return fmt.Errorf("load reports: %w", err)
			}
			choices := choose(reports)
			if len(choices) == 0 {
				return fmt.Errorf("no sweep reports found in %s", dir)
			}
			printChoices(cmd.OutOrStdout(), choices, maxResults)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "reports", "directory containing JSON sweep reports")
	cmd.Flags().IntVarP(&maxResults, "top", "n", 0, "number of groups to print (0 prints all)")
	return cmd
}

type loaded struct {
	Path   string
	Report *benchreport.SweepReport
}

// loadReports walks dir for JSON sweep reports. Files that do not decode are skipped.
func loadReports(dir string) ([]loaded, error) {
	var out []loaded
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r, err := benchreport.ReadJSON(f)
		if err != nil || r.Version != benchreport.Version {
			return nil
		}
		out = append(out, loaded{Path: path, Report: r})
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}
	return out, nil
}

// choose picks the best point of every group, biggest speedup first.
func choose(reports []loaded) []Choice {
	choices := lo.FlatMap(reports, func(l loaded, _ int) []Choice {
		return lo.FilterMap(l.Report.Groups, func(g benchreport.GroupReport, _ int) (Choice, bool) {
			best, ok := g.Best()
			return Choice{Path: l.Path, CPUModel: l.Report.Env.CPUModel, Group: g, Best: best}, ok
		})
	})
	sort.SliceStable(choices, func(i, j int) bool {
		if choices[i].Best.Normalized != choices[j].Best.Normalized {
			return choices[i].Best.Normalized < choices[j].Best.Normalized
		}
		return choices[i].Best.Threads < choices[j].Best.Threads
	})
	return choices
}

func printChoices(w io.Writer, choices []Choice, maxResults int) {
	if maxResults <= 0 || maxResults > len(choices) {
		maxResults = len(choices)
	}
	for i, c := range choices[:maxResults] {
		b := c.Best
		fmt.Fprintf(w, "%d) %s\n", i+1, c.Group.Signature)
		fmt.Fprintf(w, "   report=%s cpu=%q\n", c.Path, c.CPUModel)
		fmt.Fprintf(w, "   threads=%d normalized=%.4f baseline_s=%.4f speculative_s=%.4f\n",
			b.Threads, b.Normalized, b.BaselineSeconds, b.SpeculativeSeconds)
	}
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
