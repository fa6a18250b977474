// Package config loads and saves hoafund's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// Config holds all hoafund configuration.
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Assumptions AssumptionsConfig `toml:"assumptions"`
	Funding     FundingConfig     `toml:"funding"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	HorizonYears int    `toml:"horizon_years"`
	PresetsDB    string `toml:"presets_db,omitempty"`
}

// AssumptionsConfig holds the economic defaults applied when a scenario
// file leaves a field out.
type AssumptionsConfig struct {
	InflationRate          float64 `toml:"inflation_rate"`
	InterestRate           float64 `toml:"interest_rate"`
	ContributionPolicy     string  `toml:"contribution_policy"`
	ContributionGrowthRate float64 `toml:"contribution_growth_rate"`
}

// FundingConfig holds funding-status classification settings.
type FundingConfig struct {
	AdequateThreshold float64 `toml:"adequate_threshold"`
	LookaheadYears    int     `toml:"lookahead_years"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HorizonYears: scenario.DefaultHorizonYears,
		},
		Assumptions: AssumptionsConfig{
			InflationRate:      0.03,
			InterestRate:       0.02,
			ContributionPolicy: string(scenario.ContributionTracksInflation),
		},
		Funding: FundingConfig{
			AdequateThreshold: forecast.DefaultAdequateThreshold,
			LookaheadYears:    forecast.DefaultLookaheadYears,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hoafund")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hoafund")
}

// Path returns the full path to the config file.
func Path() string {
	if p := os.Getenv("HOAFUND_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory for the preset database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hoafund")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hoafund")
}

// PresetsDBPath returns the configured preset database path or the default.
func (c Config) PresetsDBPath() string {
	if c.General.PresetsDB != "" {
		return c.General.PresetsDB
	}
	return filepath.Join(DataDir(), "presets.db")
}

// ForecastOptions returns the engine options described by the config.
func (c Config) ForecastOptions() forecast.Options {
	return forecast.Options{
		AdequateThreshold: c.Funding.AdequateThreshold,
		LookaheadYears:    c.Funding.LookaheadYears,
	}
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides (optionally from a .env file in the working
// directory) are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("HOAFUND_PRESETS_DB"); v != "" {
		cfg.General.PresetsDB = v
	}
	if v := os.Getenv("HOAFUND_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("HOAFUND_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HOAFUND_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HOAFUND_HORIZON_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HOAFUND_HORIZON_YEARS: %w", err)
		}
		cfg.General.HorizonYears = n
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
