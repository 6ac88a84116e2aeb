package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cmu-roboarch/runahead-astar/internal/app"
	"github.com/cmu-roboarch/runahead-astar/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "sweep.yaml"

// errReported marks failures that were already logged.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "research",
		Short:         "Sweep RA* over maps, weights and thread counts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to sweep YAML config")

	load := func(cmd *cobra.Command) (config.Config, error) {
		return loadConfig(configPath, cmd.Flags().Changed("config"))
	}
	root.AddCommand(newRunCmd(load), newPlanCmd(load))
	return root
}

// loadConfig falls back to defaults only when the default config file is absent.
func loadConfig(path string, explicit bool) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func newRunCmd(load func(*cobra.Command) (config.Config, error)) *cobra.Command {
	var (
		skipBuild bool
		asJSON    bool
		pause     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the planner and run the full sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, app.Options{
				SkipBuild: skipBuild,
				Stderr:    cmd.ErrOrStderr(),
				CPUModel:  detectCPUModel(),
			})
			if err != nil {
				return err
			}

			rep, err := a.Run(cmd.Context())
			if err != nil {
				a.Log.Error("sweep failed", "stage", app.Stage(err), "error", err)
				return errReported
			}
			if asJSON {
				if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}
			if pause {
				fmt.Fprint(cmd.ErrOrStderr(), "Press Enter to exit...")
				_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "use the existing executable instead of rebuilding it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the sweep report as JSON to stdout")
	cmd.Flags().BoolVar(&pause, "pause", false, "wait for Enter after the sweep")
	return cmd
}

func newPlanCmd(load func(*cobra.Command) (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print every trial command line without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, app.Options{Stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			p, err := a.Plan()
			if err != nil {
				return err
			}
			for _, argv := range a.CommandLines(p) {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
			}
			return nil
		},
	}
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
