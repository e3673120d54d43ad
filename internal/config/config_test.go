package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Grid.NX < 3 || cfg.Grid.NY < 3 {
		t.Error("default grid below stencil minimum")
	}
	if cfg.Run.CFL <= 0 || cfg.Run.CFL > 1 {
		t.Errorf("default cfl %g out of range", cfg.Run.CFL)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny grid", func(c *Config) { c.Grid.NX = 2 }},
		{"zero spacing", func(c *Config) { c.Grid.DX = 0 }},
		{"bad boundary", func(c *Config) { c.Grid.Boundary = "slippery" }},
		{"bad scheme", func(c *Config) { c.Physics.Scheme = "quick" }},
		{"bad solver", func(c *Config) { c.Pressure.Solver = "multigrid" }},
		{"zero density", func(c *Config) { c.Physics.Density = 0 }},
		{"zero ceiling", func(c *Config) { c.Physics.SpeedCeiling = 0 }},
		{"cfl too big", func(c *Config) { c.Run.CFL = 1.5 }},
		{"bad scenario", func(c *Config) { c.Initial.Scenario = "tornado" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Grid.NX = 25
	cfg.Initial.Scenario = "vortex"
	cfg.Initial.WindU = 12.5
	cfg.Radiation.Enabled = true

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Grid.NX != 25 || got.Initial.Scenario != "vortex" || got.Initial.WindU != 12.5 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if !got.Radiation.Enabled {
		t.Error("round trip lost radiation flag")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := DefaultConfig()
	cfg.Grid.NX = 1
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected load to reject invalid grid")
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestBuildGridScenarios(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			g, err := BuildGrid(GetPreset(name))
			if err != nil {
				t.Fatal(err)
			}
			if !g.T.IsValid() || !g.U.IsValid() || !g.V.IsValid() {
				t.Fatal("initial fields contain NaN/Inf")
			}
			for _, temp := range g.T {
				if temp < 150 || temp > 340 {
					t.Fatalf("implausible initial temperature %g K", temp)
				}
			}
		})
	}
}

func TestBuildGridVortexRotates(t *testing.T) {
	cfg := GetPreset("vortex")
	g, err := BuildGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Counter-clockwise: eastward flow below centre, westward above.
	lower := g.U[g.Idx(g.NX/2, g.NY/4)]
	upper := g.U[g.Idx(g.NX/2, 3*g.NY/4)]
	if lower <= 0 || upper >= 0 {
		t.Errorf("vortex sense wrong: u(lower)=%g u(upper)=%g", lower, upper)
	}
	if g.MaxSpeed() > cfg.Initial.WindU*1.01 {
		t.Errorf("vortex speed %g exceeds rim speed %g", g.MaxSpeed(), cfg.Initial.WindU)
	}
}

func TestBuildGridConvectiveReproducible(t *testing.T) {
	cfg := GetPreset("convective")
	g1, err := BuildGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := BuildGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for k := range g1.T {
		if math.Abs(g1.T[k]-g2.T[k]) > 0 {
			t.Fatal("same seed produced different thermal noise")
		}
	}
}

func TestBuildAssemblesEngine(t *testing.T) {
	engine, g, err := Build(GetPreset("calm"))
	if err != nil {
		t.Fatal(err)
	}
	if engine == nil || g == nil {
		t.Fatal("nil engine or grid")
	}
	if engine.StableDt() <= 0 {
		t.Error("assembled engine has non-positive step size")
	}
}
