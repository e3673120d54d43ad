// Package config loads run configuration and assembles a ready-to-step
// engine from it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/momentum"
	"github.com/san-kum/atmodyn/internal/pressure"
)

const (
	DefaultNX          = 40
	DefaultNY          = 40
	DefaultSpacing     = 1000.0
	DefaultViscosity   = 50.0
	DefaultDensity     = 1.225
	DefaultCeiling     = 150.0
	DefaultCFL         = 0.5
	DefaultMaxDt       = 10.0
	DefaultSteps       = 100
	DefaultTolerance   = 1e-6
	DefaultMaxIter     = 10000
	DefaultDivTol      = 1e-2
	DefaultSurfaceTemp = 288.0
	DefaultLapseRate   = 6.5
)

type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Initial   InitialConfig   `yaml:"initial"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Pressure  PressureConfig  `yaml:"pressure"`
	Radiation RadiationConfig `yaml:"radiation"`
	Run       RunConfig       `yaml:"run"`
}

type GridConfig struct {
	NX       int     `yaml:"nx"`
	NY       int     `yaml:"ny"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	Boundary string  `yaml:"boundary"` // no-slip, periodic, open
}

type InitialConfig struct {
	Scenario       string  `yaml:"scenario"`        // calm, shear, vortex, pressure-pulse, convective
	WindU          float64 `yaml:"wind_u"`
	WindV          float64 `yaml:"wind_v"`
	SurfaceTemp    float64 `yaml:"surface_temp"`    // K
	LapseRatePerKm float64 `yaml:"lapse_rate"`      // K/km
	Humidity       float64 `yaml:"humidity"`        // surface specific humidity, kg/kg
	PulseAmplitude float64 `yaml:"pulse_amplitude"` // Pa, pressure-pulse scenario
	ForcingX       float64 `yaml:"forcing_x"`       // m/s^2, shear scenario
	Seed           int64   `yaml:"seed"`
}

type PhysicsConfig struct {
	Viscosity           float64 `yaml:"viscosity"` // m^2/s
	Density             float64 `yaml:"density"`   // kg/m^3
	Scheme              string  `yaml:"scheme"`    // upwind, central
	SpeedCeiling        float64 `yaml:"speed_ceiling"`
	ThermalDiffusivity  float64 `yaml:"thermal_diffusivity"`
	HumidityDiffusivity float64 `yaml:"humidity_diffusivity"`
}

type PressureConfig struct {
	Solver        string  `yaml:"solver"` // sor, gauss-seidel
	Omega         float64 `yaml:"omega"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	DivTolerance  float64 `yaml:"div_tolerance"`
}

type RadiationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Albedo    float64 `yaml:"albedo"`
	CO2ppm    float64 `yaml:"co2_ppm"`
	Latitude  float64 `yaml:"latitude"`   // degrees
	StartHour float64 `yaml:"start_hour"` // local solar time
}

type RunConfig struct {
	Steps int     `yaml:"steps"`
	CFL   float64 `yaml:"cfl"`
	MaxDt float64 `yaml:"max_dt"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			NX: DefaultNX, NY: DefaultNY,
			DX: DefaultSpacing, DY: DefaultSpacing,
			Boundary: "periodic",
		},
		Initial: InitialConfig{
			Scenario:       "calm",
			SurfaceTemp:    DefaultSurfaceTemp,
			LapseRatePerKm: DefaultLapseRate,
			Humidity:       0.008,
		},
		Physics: PhysicsConfig{
			Viscosity:    DefaultViscosity,
			Density:      DefaultDensity,
			Scheme:       "upwind",
			SpeedCeiling: DefaultCeiling,
		},
		Pressure: PressureConfig{
			Solver:        "sor",
			Tolerance:     DefaultTolerance,
			MaxIterations: DefaultMaxIter,
			DivTolerance:  DefaultDivTol,
		},
		Radiation: RadiationConfig{
			Albedo:    0.3,
			CO2ppm:    420,
			Latitude:  -27.5,
			StartHour: 12,
		},
		Run: RunConfig{
			Steps: DefaultSteps,
			CFL:   DefaultCFL,
			MaxDt: DefaultMaxDt,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the component constructors would otherwise only
// fail on at run time.
func (c *Config) Validate() error {
	if c.Grid.NX < 3 || c.Grid.NY < 3 {
		return fmt.Errorf("config: grid %dx%d below minimum 3x3", c.Grid.NX, c.Grid.NY)
	}
	if c.Grid.DX <= 0 || c.Grid.DY <= 0 {
		return fmt.Errorf("config: non-positive grid spacing")
	}
	if _, err := grid.ParseBoundaryKind(c.Grid.Boundary); err != nil {
		return err
	}
	if _, err := momentum.ParseScheme(c.Physics.Scheme); err != nil {
		return err
	}
	if _, err := pressure.NewSolver(c.Pressure.Solver, c.Pressure.Omega); err != nil {
		return err
	}
	if c.Physics.Viscosity < 0 {
		return fmt.Errorf("config: negative viscosity")
	}
	if c.Physics.Density <= 0 {
		return fmt.Errorf("config: non-positive density")
	}
	if c.Physics.SpeedCeiling <= 0 {
		return fmt.Errorf("config: non-positive speed ceiling")
	}
	if c.Pressure.Tolerance <= 0 || c.Pressure.MaxIterations <= 0 {
		return fmt.Errorf("config: invalid poisson settings")
	}
	if c.Run.CFL <= 0 || c.Run.CFL > 1 {
		return fmt.Errorf("config: cfl %g outside (0,1]", c.Run.CFL)
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("config: negative step count")
	}
	if known := knownScenario(c.Initial.Scenario); !known {
		return fmt.Errorf("config: unknown scenario %q", c.Initial.Scenario)
	}
	return nil
}

func knownScenario(s string) bool {
	switch s {
	case "calm", "shear", "vortex", "pressure-pulse", "convective":
		return true
	}
	return false
}
