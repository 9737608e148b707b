package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/floatsim/internal/config"
	"github.com/san-kum/floatsim/internal/experiment"
	"github.com/san-kum/floatsim/internal/export"
	"github.com/san-kum/floatsim/internal/hydro"
	"github.com/san-kum/floatsim/internal/model"
)

// renderDesign draws the platforms at their unloaded equilibrium, or
// undisplaced when the equilibrium cannot be found.
func renderDesign(cmd *cobra.Command, args []string) error {
	ref, err := designRef(args)
	if err != nil {
		return err
	}
	desc, _, err := experiment.NewRegistry().Resolve(ref)
	if err != nil {
		return err
	}
	engine, err := hydro.New(desc, hydro.WithLogger(logger))
	if err != nil {
		return err
	}
	m := model.New(engine, model.WithLogger(logger))
	if err := m.AnalyzeUnloaded(cmd.Context()); err != nil {
		logger.Warn("drawing undisplaced geometry", "error", err)
	}

	if err := m.Render(os.Stdout, hideGrid); err != nil {
		return err
	}
	if outPath == "" {
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := export.CanvasToSVG(f, engine.Canvas(hideGrid), 4); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("drawing written to %s\n", outPath)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
