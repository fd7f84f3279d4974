package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/blocksim/internal/automation"
	"github.com/san-kum/blocksim/internal/storage"
)

var (
	sweepBlock   string
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepWorkers int
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one block parameter and tabulate the metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addDiagramFlags(cmd)
	cmd.Flags().StringVar(&sweepBlock, "block", "Gc", "block whose parameter is swept")
	cmd.Flags().StringVar(&sweepParam, "param", "kc", "parameter name")
	cmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	cmd.Flags().Float64Var(&sweepMax, "max", 5, "last value")
	cmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	cmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel runs (default: GOMAXPROCS)")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, slog.Default())
	if err != nil {
		return err
	}

	st := storage.New(dataDir, storage.WithLogger(slog.Default()))
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tIAE\tRUN")
	for i, r := range results {
		runID := "-"
		if !noSave {
			if runID, err = st.Save(r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%s\n", i+1, r.Config.Name, r.Result.Metrics["iae"], runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     cfg,
		Block:    sweepBlock,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Workers:  sweepWorkers,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, sweepParam)
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.ParamValue)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
