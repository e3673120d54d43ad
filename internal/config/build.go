package config

import (
	"math"
	"math/rand"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/momentum"
	"github.com/san-kum/atmodyn/internal/pressure"
	"github.com/san-kum/atmodyn/internal/radiation"
	"github.com/san-kum/atmodyn/internal/sim"
)

// BuildGrid allocates the grid and fills the initial fields for the
// configured scenario.
func BuildGrid(cfg *Config) (*grid.Grid, error) {
	kind, err := grid.ParseBoundaryKind(cfg.Grid.Boundary)
	if err != nil {
		return nil, err
	}
	g, err := grid.Allocate(cfg.Grid.NX, cfg.Grid.NY, cfg.Grid.DX, cfg.Grid.DY, grid.Uniform(kind))
	if err != nil {
		return nil, err
	}

	fillThermodynamics(g, cfg.Initial)

	switch cfg.Initial.Scenario {
	case "calm":
		// Thermodynamic profile only.
	case "shear":
		fillShear(g, cfg.Initial)
	case "vortex":
		fillVortex(g, cfg.Initial)
	case "pressure-pulse":
		amp := cfg.Initial.PulseAmplitude
		if amp == 0 {
			amp = 100
		}
		g.P[g.Idx(g.NX/2, g.NY/2)] = amp
	case "convective":
		fillConvective(g, cfg.Initial)
	}

	g.ApplyBoundary()
	return g, nil
}

// fillThermodynamics lays down a linear lapse-rate temperature profile and
// an exponentially decaying humidity profile, row by row.
func fillThermodynamics(g *grid.Grid, ic InitialConfig) {
	tSfc := ic.SurfaceTemp
	if tSfc == 0 {
		tSfc = DefaultSurfaceTemp
	}
	for j := 0; j < g.NY; j++ {
		z := float64(j) * g.DY
		tRow := tSfc - ic.LapseRatePerKm*z/1000
		if tRow < 200 {
			tRow = 200
		}
		qRow := ic.Humidity * math.Exp(-z/2000)
		for i := 0; i < g.NX; i++ {
			k := g.Idx(i, j)
			g.T[k] = tRow
			g.Q[k] = qRow
		}
	}
}

// fillShear drives westerlies in the upper half and easterlies in the lower
// half through the body-force fields, seeded with a weak matching wind.
func fillShear(g *grid.Grid, ic InitialConfig) {
	force := ic.ForcingX
	if force == 0 {
		force = 0.05
	}
	for j := 0; j < g.NY; j++ {
		f := -force
		if j > g.NY/2 {
			f = force
		}
		for i := 0; i < g.NX; i++ {
			k := g.Idx(i, j)
			g.FX[k] = f
			g.U[k] = ic.WindU * math.Copysign(1, f)
		}
	}
}

// fillVortex seeds a Rankine-style vortex centred on the domain: solid-body
// rotation inside the core radius, 1/r decay outside.
func fillVortex(g *grid.Grid, ic InitialConfig) {
	speed := ic.WindU
	if speed == 0 {
		speed = 5
	}
	cx := float64(g.NX-1) / 2 * g.DX
	cy := float64(g.NY-1) / 2 * g.DY
	core := math.Min(cx, cy) / 2
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			x := float64(i)*g.DX - cx
			y := float64(j)*g.DY - cy
			r := math.Hypot(x, y)
			if r < 1e-9 {
				continue
			}
			vt := speed * r / core
			if r > core {
				vt = speed * core / r
			}
			k := g.Idx(i, j)
			g.U[k] = -vt * y / r
			g.V[k] = vt * x / r
		}
	}
}

// fillConvective warms and moistens the lower levels and adds seeded thermal
// noise so the columns are not all identical.
func fillConvective(g *grid.Grid, ic InitialConfig) {
	rng := rand.New(rand.NewSource(ic.Seed))
	for j := 0; j < g.NY; j++ {
		boost := 4 * math.Exp(-float64(j)*g.DY/1500)
		for i := 0; i < g.NX; i++ {
			k := g.Idx(i, j)
			g.T[k] += boost + rng.Float64()*0.5
			g.Q[k] *= 1.5
		}
	}
}

// Build assembles a ready-to-step engine from the configuration. The caller
// owns the returned grid only for inspection; the engine steps it.
func Build(cfg *Config) (*sim.Engine, *grid.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	g, err := BuildGrid(cfg)
	if err != nil {
		return nil, nil, err
	}

	scheme, err := momentum.ParseScheme(cfg.Physics.Scheme)
	if err != nil {
		return nil, nil, err
	}
	mom := momentum.New(cfg.Physics.Viscosity, cfg.Physics.Density, cfg.Physics.SpeedCeiling, scheme)

	solver, err := pressure.NewSolver(cfg.Pressure.Solver, cfg.Pressure.Omega)
	if err != nil {
		return nil, nil, err
	}
	proj := pressure.NewProjector(cfg.Physics.Density, solver,
		cfg.Pressure.Tolerance, cfg.Pressure.MaxIterations, cfg.Pressure.DivTolerance)

	rad := radiation.NewModel()
	if cfg.Radiation.Albedo > 0 {
		rad.Albedo = cfg.Radiation.Albedo
	}
	if cfg.Radiation.CO2ppm > 0 {
		rad.CO2ppm = cfg.Radiation.CO2ppm
	}
	solar := radiation.SolarSchedule{
		Latitude:  cfg.Radiation.Latitude,
		StartHour: cfg.Radiation.StartHour,
	}

	engine := sim.New(g, mom, proj, rad, solar, sim.Config{
		CFL:                 cfg.Run.CFL,
		MaxDt:               cfg.Run.MaxDt,
		ThermalDiffusivity:  cfg.Physics.ThermalDiffusivity,
		HumidityDiffusivity: cfg.Physics.HumidityDiffusivity,
		RadiationEnabled:    cfg.Radiation.Enabled,
	})
	return engine, g, nil
}
