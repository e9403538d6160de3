package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("DUNBRACK_LIB", "")
	cfg := DefaultConfig()

	if cfg.Library != DefaultLibrary {
		t.Errorf("expected library %s, got %s", DefaultLibrary, cfg.Library)
	}
	if cfg.Sweep.Step <= 0 {
		t.Error("sweep step should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultConfig_Env(t *testing.T) {
	t.Setenv("DUNBRACK_LIB", "/data/bbdep.csv.gz")
	if got := DefaultConfig().Library; got != "/data/bbdep.csv.gz" {
		t.Errorf("expected library from env, got %s", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dunbrack.yaml")
	cfg := DefaultConfig()
	cfg.Library = "lib.csv"
	cfg.Sweep.Psi = 140
	cfg.Sample.Seed = 42
	cfg.LogLevel = "debug"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("loaded %+v, want %+v", got, cfg)
	}
	if l, _ := got.Level(); l != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", l)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"output", func(c *Config) { c.Output = "xml" }},
		{"step", func(c *Config) { c.Sweep.Step = 0 }},
		{"range", func(c *Config) { c.Sweep.From, c.Sweep.To = 10, -10 }},
		{"count", func(c *Config) { c.Sample.Count = -1 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	b := GetPreset("helix", "alpha")
	if b == nil {
		t.Fatal("expected preset, got nil")
	}
	if b.Phi != -57 || b.Psi != -47 {
		t.Errorf("expected (-57, -47), got (%g, %g)", b.Phi, b.Psi)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("helix", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "alpha") != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestFindPreset(t *testing.T) {
	for _, name := range []string{"ppii", "coil/ppii"} {
		b, ok := FindPreset(name)
		if !ok || b.Phi != -75 || b.Psi != 145 {
			t.Errorf("%s: got %+v, %v", name, b, ok)
		}
	}
	if _, ok := FindPreset("sheet/alpha"); ok {
		t.Error("expected miss for preset in the wrong group")
	}
	if _, ok := FindPreset("nope"); ok {
		t.Error("expected miss for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	groups := ListGroups()
	if len(groups) != len(Presets) {
		t.Fatalf("expected %d groups, got %d", len(Presets), len(groups))
	}
	for _, g := range groups {
		names := ListPresets(g)
		if len(names) == 0 {
			t.Errorf("expected presets for %s", g)
		}
		for _, n := range names {
			b := GetPreset(g, n)
			if b.Phi < -180 || b.Phi > 180 || b.Psi < -180 || b.Psi > 180 {
				t.Errorf("%s/%s out of range: %+v", g, n, b)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestValidate_Field(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sweep.From, cfg.Sweep.To = 10, -10
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "sweep.from") {
		t.Errorf("expected the failing field in %v", err)
	}
	cfg = DefaultConfig()
	cfg.Output = "JSON"
	if err := cfg.Validate(); err != nil {
		t.Errorf("output should be case-insensitive: %v", err)
	}
}
