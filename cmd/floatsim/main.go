package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"

	"github.com/san-kum/floatsim/internal/config"
	"github.com/san-kum/floatsim/internal/design"
	flog "github.com/san-kum/floatsim/internal/log"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/viz"
)

// Exit codes.
const (
	exitError  = 1
	exitConfig = 2
	exitStage  = 3
)

var (
	dataDir    string
	configFile string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger

	// run
	preset     string
	platform   int
	display    bool
	outPath    string
	view       bool
	render     bool
	hideGrid   bool
	save       bool
	series     string
	seriesSeed uint64

	// batch
	jobs int

	// history
	format  string
	caseNum int
)

// main wires the commands and exits non-zero when any of them fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "floatsim",
		Short:             "frequency-domain analysis of floating platforms",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file applied over the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [design]",
		Short: "analyse a design and plot the platform RAOs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDesign,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in design")
	runCmd.Flags().IntVar(&platform, "platform", 0, "platform index to present")
	runCmd.Flags().BoolVar(&display, "display", false, "log per-case detail")
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "save the figure (.png or .svg)")
	runCmd.Flags().BoolVar(&view, "view", false, "open the interactive viewer")
	runCmd.Flags().BoolVar(&render, "render", false, "show the platform wireframe")
	runCmd.Flags().BoolVar(&hideGrid, "hide-grid", false, "omit the waterplane grid from the wireframe")
	runCmd.Flags().BoolVar(&save, "save", true, "record the run in history")
	runCmd.Flags().StringVar(&series, "series", "", "synthesise a time trace of one mode (surge..yaw) for the last case")
	runCmd.Flags().Uint64Var(&seriesSeed, "seed", 1, "random phase seed for --series")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in designs",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [designs...]",
		Short: "analyse several designs concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent runs (default from config)")
	batchCmd.Flags().BoolVar(&save, "save", true, "record successful runs in history")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise a recorded run and plot one case",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&platform, "platform", 0, "platform index")
	showCmd.Flags().IntVar(&caseNum, "case", 0, "case number (default: last)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "", "csv, json or xlsx (default from --out, else json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "write a markdown report of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  reportRun,
	}
	reportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "remove a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [design]",
		Short: "draw the platform geometry at equilibrium",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderDesign,
	}
	renderCmd.Flags().StringVar(&preset, "preset", "", "use a built-in design")
	renderCmd.Flags().BoolVar(&hideGrid, "hide-grid", false, "omit the waterplane grid")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the drawing as SVG")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "show or initialise the configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{Use: "show", Short: "print the effective configuration", Args: cobra.NoArgs, RunE: showConfig},
		&cobra.Command{Use: "init", Short: "write the default configuration file", Args: cobra.NoArgs, RunE: initConfig},
	)

	rootCmd.AddCommand(runCmd, presetsCmd, batchCmd, listCmd, showCmd, exportCmd, reportCmd, deleteCmd, renderCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the configuration (defaults, file, dotenv, flags) and the
// logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" && cmd.Name() != "init" {
		cfg, err = config.Load(configFile)
	} else {
		path := configFile
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", design.ErrConfiguration, err)
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return fmt.Errorf("%w: %v", design.ErrConfiguration, err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", design.ErrConfiguration, err)
	}
	level, err := flog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", design.ErrConfiguration, err)
	}
	logger = flog.WithLevel(flog.NewLogger(os.Stderr, true), level)
	slog.SetDefault(logger)

	if !slices.Contains(viz.PaletteNames(), cfg.Plot.Palette) {
		logger.Warn("unknown palette, using default", "palette", cfg.Plot.Palette)
		cfg.Plot.Palette = config.DefaultPalette
	}
	return nil
}

func exitCode(err error) int {
	var se *model.StageError
	switch {
	case errors.As(err, &se):
		return exitStage
	case errors.Is(err, design.ErrConfiguration):
		return exitConfig
	}
	return exitError
}
