package config

// Presets are ready-made run setups keyed by scenario name.
var Presets = map[string]*Config{
	"calm": {
		Grid:    GridConfig{NX: 40, NY: 40, DX: 1000, DY: 1000, Boundary: "periodic"},
		Initial: InitialConfig{Scenario: "calm", SurfaceTemp: 288, LapseRatePerKm: 6.5, Humidity: 0.008},
		Physics: PhysicsConfig{Viscosity: 50, Density: 1.225, Scheme: "upwind", SpeedCeiling: 150},
		Pressure: PressureConfig{
			Solver: "sor", Tolerance: 1e-6, MaxIterations: 10000, DivTolerance: 1e-2,
		},
		Radiation: RadiationConfig{Enabled: true, Albedo: 0.3, CO2ppm: 420, Latitude: -27.5, StartHour: 12},
		Run:       RunConfig{Steps: 200, CFL: 0.5, MaxDt: 10},
	},
	"shear": {
		Grid:    GridConfig{NX: 40, NY: 40, DX: 1250, DY: 1250, Boundary: "periodic"},
		Initial: InitialConfig{Scenario: "shear", WindU: 2, ForcingX: 0.05, SurfaceTemp: 288, LapseRatePerKm: 6.5, Humidity: 0.008},
		Physics: PhysicsConfig{Viscosity: 500, Density: 1.225, Scheme: "upwind", SpeedCeiling: 150},
		Pressure: PressureConfig{
			Solver: "sor", Tolerance: 1e-6, MaxIterations: 10000, DivTolerance: 1e-2,
		},
		Radiation: RadiationConfig{Albedo: 0.3, CO2ppm: 420, Latitude: -27.5, StartHour: 12},
		Run:       RunConfig{Steps: 100, CFL: 0.5, MaxDt: 10},
	},
	"vortex": {
		Grid:    GridConfig{NX: 60, NY: 60, DX: 1000, DY: 1000, Boundary: "periodic"},
		Initial: InitialConfig{Scenario: "vortex", WindU: 8, SurfaceTemp: 290, LapseRatePerKm: 6.5, Humidity: 0.010},
		Physics: PhysicsConfig{Viscosity: 100, Density: 1.225, Scheme: "upwind", SpeedCeiling: 150},
		Pressure: PressureConfig{
			Solver: "sor", Tolerance: 1e-6, MaxIterations: 20000, DivTolerance: 1e-2,
		},
		Radiation: RadiationConfig{Albedo: 0.3, CO2ppm: 420, Latitude: -27.5, StartHour: 12},
		Run:       RunConfig{Steps: 300, CFL: 0.5, MaxDt: 5},
	},
	"pressure-pulse": {
		Grid:    GridConfig{NX: 10, NY: 10, DX: 100, DY: 100, Boundary: "open"},
		Initial: InitialConfig{Scenario: "pressure-pulse", PulseAmplitude: 100, SurfaceTemp: 288, Humidity: 0},
		Physics: PhysicsConfig{Viscosity: 5, Density: 1.225, Scheme: "upwind", SpeedCeiling: 200},
		Pressure: PressureConfig{
			Solver: "sor", Tolerance: 1e-10, MaxIterations: 20000, DivTolerance: 1e-2,
		},
		Radiation: RadiationConfig{Albedo: 0.3, CO2ppm: 420, Latitude: 0, StartHour: 12},
		Run:       RunConfig{Steps: 1, CFL: 0.5, MaxDt: 5},
	},
	"convective": {
		Grid:    GridConfig{NX: 30, NY: 48, DX: 1000, DY: 250, Boundary: "open"},
		Initial: InitialConfig{Scenario: "convective", SurfaceTemp: 301, LapseRatePerKm: 7.5, Humidity: 0.016, Seed: 42},
		Physics: PhysicsConfig{Viscosity: 50, Density: 1.225, Scheme: "upwind", SpeedCeiling: 150,
			ThermalDiffusivity: 20, HumidityDiffusivity: 20},
		Pressure: PressureConfig{
			Solver: "sor", Tolerance: 1e-6, MaxIterations: 10000, DivTolerance: 1e-2,
		},
		Radiation: RadiationConfig{Enabled: true, Albedo: 0.25, CO2ppm: 420, Latitude: -27.5, StartHour: 13},
		Run:       RunConfig{Steps: 150, CFL: 0.5, MaxDt: 10},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
