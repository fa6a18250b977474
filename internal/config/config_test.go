package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("HOAFUND_CONFIG", path)
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.General.HorizonYears != def.General.HorizonYears {
		t.Errorf("HorizonYears = %d, want %d", cfg.General.HorizonYears, def.General.HorizonYears)
	}
	if cfg.Funding.AdequateThreshold != 0.7 || cfg.Funding.LookaheadYears != 5 {
		t.Errorf("Funding = %+v, want threshold 0.7 lookahead 5", cfg.Funding)
	}
	if Exists() {
		t.Error("Exists() = true for a missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfig(t)

	cfg := DefaultConfig()
	cfg.Assumptions.InflationRate = 0.045
	cfg.Funding.LookaheadYears = 8
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Assumptions.InflationRate != 0.045 {
		t.Errorf("InflationRate = %v, want 0.045", got.Assumptions.InflationRate)
	}
	if got.Funding.LookaheadYears != 8 {
		t.Errorf("LookaheadYears = %d, want 8", got.Funding.LookaheadYears)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q, want tokyo-night", got.Appearance.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := useTempConfig(t)
	if err := os.WriteFile(path, []byte("[funding]\nadequate_threshold = 0.8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Funding.AdequateThreshold != 0.8 {
		t.Errorf("AdequateThreshold = %v, want 0.8", cfg.Funding.AdequateThreshold)
	}
	if cfg.Funding.LookaheadYears != 5 {
		t.Errorf("LookaheadYears = %d, want default 5", cfg.Funding.LookaheadYears)
	}
	if cfg.Assumptions.ContributionPolicy != "inflation" {
		t.Errorf("ContributionPolicy = %q, want inflation", cfg.Assumptions.ContributionPolicy)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := useTempConfig(t)
	if err := os.WriteFile(path, []byte("[funding\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv("HOAFUND_PRESETS_DB", "/tmp/p.db")
	t.Setenv("HOAFUND_HORIZON_YEARS", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PresetsDBPath() != "/tmp/p.db" {
		t.Errorf("PresetsDBPath = %q", cfg.PresetsDBPath())
	}
	if cfg.General.HorizonYears != 40 {
		t.Errorf("HorizonYears = %d, want 40", cfg.General.HorizonYears)
	}

	t.Setenv("HOAFUND_HORIZON_YEARS", "forty")
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a non-numeric HOAFUND_HORIZON_YEARS")
	}
}

func TestForecastOptions(t *testing.T) {
	opts := DefaultConfig().ForecastOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
}
