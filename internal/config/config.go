package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel      = "info"
	DefaultLengthUnit    = "m"
	DefaultFrequencyUnit = "rad/s"
	DefaultPlotWidth     = 70
	DefaultPlotHeight    = 10
	DefaultPalette       = "sea"
)

// Environment variables read by ApplyEnv.
const (
	EnvDataDir  = "FLOATSIM_DATA"
	EnvLogLevel = "FLOATSIM_LOG_LEVEL"
	EnvJobs     = "FLOATSIM_JOBS"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	DataDir       string     `yaml:"data_dir"`
	LogLevel      string     `yaml:"log_level"`
	LengthUnit    string     `yaml:"length_unit"`
	FrequencyUnit string     `yaml:"frequency_unit"`
	Jobs          int        `yaml:"jobs"`
	Plot          PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Color   bool   `yaml:"color"`
	Palette string `yaml:"palette"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:       filepath.Join(xdg.DataHome, "floatsim"),
		LogLevel:      DefaultLogLevel,
		LengthUnit:    DefaultLengthUnit,
		FrequencyUnit: DefaultFrequencyUnit,
		Jobs:          runtime.NumCPU(),
		Plot: PlotConfig{
			Width:   DefaultPlotWidth,
			Height:  DefaultPlotHeight,
			Color:   true,
			Palette: DefaultPalette,
		},
	}
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "floatsim", "config.yaml")
}

// Load reads a YAML config over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads envFile into the process environment when it exists, then
// overrides fields from FLOATSIM_* variables.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", envFile, err)
		}
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvJobs, v)
		}
		c.Jobs = n
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	switch c.FrequencyUnit {
	case "rad/s", "Hz":
	default:
		return fmt.Errorf("%w: frequency_unit %q", ErrInvalid, c.FrequencyUnit)
	}
	if c.LengthUnit == "" {
		return fmt.Errorf("%w: empty length_unit", ErrInvalid)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalid, c.Jobs)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: empty data_dir", ErrInvalid)
	}
	return nil
}
