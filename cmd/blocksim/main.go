package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/experiment"
	"github.com/san-kum/blocksim/internal/logging"
	"github.com/san-kum/blocksim/internal/optim"
	"github.com/san-kum/blocksim/internal/storage"
	"github.com/san-kum/blocksim/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	preset     string
	dt         float64
	stop       float64
	signals    []string
	noSave     bool
	showPlot   bool
	// tune
	tuneBlock  string
	tuneMetric string
	kcRange    []float64
	tauIRange  []float64
	tauDRange  []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "blocksim",
		Short:         "block diagram simulator for control loops",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{Level: logLevel, Format: logFormat, Output: os.Stderr})
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".blocksim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a diagram and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addDiagramFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the recorded signals")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "simulate a diagram with a live progress view",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	addDiagramFlags(watchCmd)
	watchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search controller gains",
		Args:  cobra.NoArgs,
		RunE:  tuneController,
	}
	addDiagramFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneBlock, "block", "Gc", "controller block to tune")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "iae", "metric to minimize")
	tuneCmd.Flags().Float64SliceVar(&kcRange, "kc", optim.Linspace(0.5, 5, 10), "candidate gains")
	tuneCmd.Flags().Float64SliceVar(&tauIRange, "tau-i", []float64{0.5, 1, 2, 4}, "candidate integral times")
	tuneCmd.Flags().Float64SliceVar(&tauDRange, "tau-d", nil, "candidate derivative times (pid only)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset diagrams",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run signals in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&signals, "signals", nil, "signals to plot (default: all)")

	pngCmd := &cobra.Command{
		Use:   "png [run_id] [file]",
		Short: "render run signals to an image (png, svg or pdf)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  saveImage,
	}
	pngCmd.Flags().StringSliceVar(&signals, "signals", nil, "signals to plot (default: all)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run signals as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(runCmd, watchCmd, tuneCmd, newSweepCmd(), newBatchCmd(), presetsCmd, listCmd, plotCmd, pngCmd, exportJSONCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addDiagramFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "diagram file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset diagram")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&stop, "time", config.DefaultStop, "stop time")
	cmd.Flags().StringSliceVar(&signals, "signals", nil, "signals to show (default: all)")
}

// loadConfig resolves the diagram from --preset or --config, falling back to
// the default loop. --dt and --time override the file when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "" && configFile != "":
		return nil, fmt.Errorf("--preset and --config are mutually exclusive")
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("dt") {
		cfg.Time.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Time.Stop = stop
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	slog.Debug("diagram built", "name", cfg.Name, "diagram", exp.Diagram().String())

	result, err := exp.Run()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d ticks, t = %g … %g (%s)\n",
		cfg.Name, result.Len(), result.Times[0], result.Times[result.Len()-1], result.Duration)
	printMetrics(result.Metrics)

	if showPlot {
		chart, err := tui.Chart(result.Result, signals, 80, 10)
		if err != nil {
			return err
		}
		fmt.Print(chart)
	}

	return saveRun(cfg, result)
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	result, err := tui.Watch(exp, signals)
	if err != nil {
		return err
	}
	return saveRun(cfg, result)
}

func saveRun(cfg *config.Config, result *experiment.Result) error {
	if noSave {
		return nil
	}

	st := storage.New(dataDir, storage.WithLogger(slog.Default()))
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func tuneController(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	bc, ok := cfg.Block(tuneBlock)
	if !ok {
		return fmt.Errorf("no block named %q", tuneBlock)
	}

	names := []string{"kc", "tau_i"}
	ranges := [][]float64{kcRange, tauIRange}
	if bc.Kind == "pid" && len(tauDRange) > 0 {
		names = append(names, "tau_d")
		ranges = append(ranges, tauDRange)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	slog.Info("tuning", "block", tuneBlock, "kind", bc.Kind, "metric", tuneMetric, "candidates", gs.Size())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	best, value, err := gs.Search(ctx, optim.TuneBlock(cfg, tuneBlock), tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s = %.6g\n", tuneMetric, value)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%g\n", name, best[name])
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", args[0])
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		fmt.Println(exp.Diagram().String())
		return nil
	}

	for _, name := range config.ListPresets() {
		fmt.Println(name)
	}
	return nil
}
