package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/floatsim/internal/design"
	"github.com/san-kum/floatsim/internal/hydro"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FrequencyUnit != "rad/s" {
		t.Errorf("expected rad/s, got %s", cfg.FrequencyUnit)
	}
	if cfg.Jobs < 1 {
		t.Error("jobs should be positive")
	}
	if filepath.Base(cfg.DataDir) != "floatsim" {
		t.Errorf("unexpected data dir %s", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Plot.Width = 100

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoad_PartialOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("frequency_unit: Hz\nplot:\n  height: 14\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FrequencyUnit != "Hz" || cfg.Plot.Height != 14 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Plot.Width != DefaultPlotWidth || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Load should fail on a missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(env, []byte("FLOATSIM_JOBS=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDataDir, "/tmp/floatsim-test")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvJobs, "")
	os.Unsetenv(EnvJobs)

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.DataDir != "/tmp/floatsim-test" || cfg.LogLevel != "warn" || cfg.Jobs != 3 {
		t.Errorf("env not applied: %+v", cfg)
	}

	if err := DefaultConfig().ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

func TestApplyEnv_BadJobs(t *testing.T) {
	t.Setenv(EnvJobs, "many")
	err := DefaultConfig().ApplyEnv("")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"frequency unit", func(c *Config) { c.FrequencyUnit = "rpm" }},
		{"length unit", func(c *Config) { c.LengthUnit = "" }},
		{"jobs", func(c *Config) { c.Jobs = 0 }},
		{"data dir", func(c *Config) { c.DataDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"semi", "spar"}
	if got := ListPresets(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListPresets() = %v, want %v", got, want)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, ok := GetPreset("barge"); ok {
		t.Error("expected no preset")
	}
	if _, err := LoadPreset("barge"); !errors.Is(err, design.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPresetsSolve(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			desc, err := LoadPreset(name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if desc.Name() != name {
				t.Errorf("Name() = %q", desc.Name())
			}
			e, err := hydro.New(desc, hydro.WithLogger(logger))
			if err != nil {
				t.Fatalf("engine: %v", err)
			}
			statics, err := e.AnalyzeUnloaded(context.Background())
			if err != nil {
				t.Fatalf("statics: %v", err)
			}
			if statics[0].Mass <= 0 || statics[0].Displacement <= 0 {
				t.Errorf("statics = %+v", statics[0])
			}
			if _, err := e.SolveEigen(context.Background()); err != nil {
				t.Fatalf("eigen: %v", err)
			}
		})
	}
}
