package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/atmodyn/internal/analysis"
	"github.com/san-kum/atmodyn/internal/config"
	"github.com/san-kum/atmodyn/internal/export"
	"github.com/san-kum/atmodyn/internal/metrics"
	"github.com/san-kum/atmodyn/internal/sim"
	"github.com/san-kum/atmodyn/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	radiation  bool
	outputPath string
	noSave     bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "atmodyn",
		Short: "2D atmospheric dynamics lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".atmodyn", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")
	runCmd.Flags().BoolVar(&radiation, "radiation", false, "force radiative transfer on")
	runCmd.Flags().StringVar(&outputPath, "output", "", "write run data as JSON")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip archiving the run")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")

	stepCmd := &cobra.Command{
		Use:   "step [scenario]",
		Short: "advance one time step and dump the state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  stepOnce,
	}
	stepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	stepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	stepCmd.Flags().StringVar(&outputPath, "output", "", "write the snapshot as JSON")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export an archived run to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportArchivedRun,
	}
	exportCmd.Flags().StringVar(&outputPath, "output", "", "destination path (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of the kinetic energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	diagnoseCmd := &cobra.Command{
		Use:   "diagnose [scenario]",
		Short: "column stability diagnostics (CAPE/CIN)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  diagnoseColumns,
	}
	diagnoseCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	diagnoseCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [config file]",
		Short: "validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, stepCmd, diagnoseCmd, presetsCmd, checkCmd, initCmd,
		exportCmd, listCmd, showCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig layers scenario argument, preset, and config file into one
// Config. A config file wins over a preset; the scenario argument picks a
// preset when nothing else is given.
func resolveConfig(args []string) (*config.Config, string, error) {
	scenario := ""
	if len(args) == 1 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case scenario != "":
		if p := config.GetPreset(scenario); p != nil {
			cfg = p
		} else {
			cfg.Initial.Scenario = scenario
			if err := cfg.Validate(); err != nil {
				return nil, "", err
			}
		}
	}
	return cfg, cfg.Initial.Scenario, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(args)
	if err != nil {
		return err
	}
	if steps > 0 {
		cfg.Run.Steps = steps
	}
	if radiation {
		cfg.Radiation.Enabled = true
	}

	engine, _, err := config.Build(cfg)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	engine.AddMetric(metrics.NewKineticEnergy())
	engine.AddMetric(metrics.NewEnergyDrift())
	engine.AddMetric(metrics.NewPeakWind())
	engine.AddMetric(metrics.NewMaxDivergence())
	engine.AddMetric(metrics.NewMeanStepSize())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scenario (%dx%d grid, %d steps)...\n",
		scenario, cfg.Grid.NX, cfg.Grid.NY, cfg.Run.Steps)
	start := time.Now()

	status, runErr := engine.Run(ctx, cfg.Run.Steps)
	elapsed := time.Since(start)

	fmt.Printf("state: %s after %d steps in %v\n", status.State, status.StepsCompleted, elapsed)
	if runErr != nil {
		fmt.Printf("stopped: %v\n", runErr)
	}
	for _, w := range status.Warnings {
		fmt.Printf("warning (step %d): %s\n", w.Step, w.Message)
	}

	if ke := engine.KineticEnergyTrace(); len(ke) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ke,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy (J)"),
		))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for name, val := range status.Metrics {
		fmt.Fprintf(w, "%s\t%.6g\n", name, val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if outputPath != "" || !noSave {
		reports, err := engine.Diagnose(context.Background())
		if err != nil {
			return err
		}
		data := export.CollectRun(scenario, engine, status, reports)

		if outputPath != "" {
			if err := export.WriteJSON(outputPath, data); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outputPath)
		}
		if !noSave {
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(data)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
		}
	}

	// Abort from a fatal step error already reported above; exit zero so
	// the state line is the authoritative output.
	if status.State == sim.Aborted && runErr != nil {
		os.Exit(2)
	}
	return nil
}

func diagnoseColumns(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(args)
	if err != nil {
		return err
	}
	engine, _, err := config.Build(cfg)
	if err != nil {
		return err
	}

	reports, err := engine.Diagnose(context.Background())
	if err != nil {
		return err
	}

	stable := color.New(color.FgGreen).SprintFunc()
	marginal := color.New(color.FgYellow).SprintFunc()
	severe := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Printf("diagnostics for %s scenario (%d columns)\n\n", scenario, len(reports))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COL\tCAPE (J/kg)\tCIN (J/kg)\tLIFTED INDEX\tCLASS\tINHIBITION")
	for _, r := range reports {
		class := stable(r.Class.String())
		switch r.Class.String() {
		case "marginally-unstable":
			class = marginal(r.Class.String())
		case "unstable":
			class = severe(r.Class.String())
		}
		fmt.Fprintf(w, "%d\t%.0f\t%.0f\t%.1f\t%s\t%s\n",
			r.Column, r.CAPE, r.CIN, r.LiftedIndex, class, r.Inhibition)
	}
	return w.Flush()
}

func stepOnce(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(args)
	if err != nil {
		return err
	}
	engine, _, err := config.Build(cfg)
	if err != nil {
		return err
	}

	result, err := engine.Step(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s: step %d advanced dt=%.3gs\n", scenario, result.Step, result.Dt)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w.Message)
	}

	data := export.FromSnapshot(engine.Snapshot(), engine.Clock())
	if outputPath != "" {
		return export.WriteJSON(outputPath, data)
	}
	return export.WriteJSONTo(os.Stdout, data)
}

func exportArchivedRun(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	if outputPath != "" {
		if err := export.WriteJSON(outputPath, data); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outputPath)
		return nil
	}
	return export.WriteJSONTo(os.Stdout, data)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tGRID\tSTEPS\tSTATE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridNX, run.GridNY,
			run.Steps,
			run.State,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSONTo(os.Stdout, data)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	sp, err := analysis.PowerSpectrum(data.KineticEnergy)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d steps)\n", args[0], data.Steps)
	fmt.Printf("dominant period: %.1f steps\n\n", sp.DominantPeriod())
	fmt.Println(asciigraph.Plot(sp.Power[1:],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy power spectrum (DC removed)"),
	))
	return nil
}
