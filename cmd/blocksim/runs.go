package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/blocksim/internal/diagram"
	"github.com/san-kum/blocksim/internal/export"
	"github.com/san-kum/blocksim/internal/storage"
	"github.com/san-kum/blocksim/internal/tui"
)

func openStore() *storage.Store {
	return storage.New(dataDir, storage.WithLogger(slog.Default()))
}

func loadRun(runID string) (*storage.RunMetadata, *diagram.Result, error) {
	st := openStore()
	id, err := st.Resolve(runID)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadResult(id)
	if err != nil {
		return nil, nil, err
	}
	if result.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", id)
	}
	return meta, result, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTOP\tDT\tSTEPS\tIAE")

	for _, run := range runs {
		iae := "-"
		if v, ok := run.Metrics["iae"]; ok {
			iae = fmt.Sprintf("%.4g", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Stop,
			run.Dt,
			run.Steps,
			iae,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("diagram: %s\n\n", meta.Name)

	chart, err := tui.Chart(result, signals, 80, 10)
	if err != nil {
		return err
	}
	fmt.Print(chart)
	printMetrics(meta.Metrics)
	return nil
}

func saveImage(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := meta.ID + ".png"
	if len(args) == 2 {
		path = args[1]
	}
	if err := export.Save(path, meta.Name, result, signals); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func printMetrics(ms map[string]float64) {
	if len(ms) == 0 {
		return
	}
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, ms[name])
	}
	w.Flush()
}
