// Package sim orchestrates the atmospheric time integration. The engine
// sequences the momentum predictor, pressure projection, scalar transport,
// and radiative forcing through a strict read-after-write chain, owns the
// simulation clock, and exposes immutable snapshots to external consumers.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/momentum"
	"github.com/san-kum/atmodyn/internal/parallel"
	"github.com/san-kum/atmodyn/internal/pressure"
	"github.com/san-kum/atmodyn/internal/radiation"
	"github.com/san-kum/atmodyn/internal/thermo"
)

// Config holds the orchestrator's own parameters. Component physics lives
// in the component constructors.
type Config struct {
	CFL                 float64 // Courant number, default 0.5
	MaxDt               float64 // step-size cap when the flow is calm (s)
	ThermalDiffusivity  float64 // m^2/s
	HumidityDiffusivity float64 // m^2/s
	RadiationEnabled    bool
}

// Engine drives one simulation run. Not safe for concurrent stepping; Abort
// is the only method safe to call from another goroutine.
type Engine struct {
	g     *grid.Grid
	mom   *momentum.Solver
	proj  *pressure.Projector
	rad   *radiation.Model
	solar radiation.SolarSchedule
	cfg   Config

	state    RunState
	clock    Clock
	warnings []Warning
	keTrace  []float64
	aborted  atomic.Bool

	metrics   []Metric
	observers []Observer
	log       *slog.Logger

	scratchT, scratchQ grid.Field
}

// New wires an engine. The grid is owned by the engine until the run ends.
func New(g *grid.Grid, mom *momentum.Solver, proj *pressure.Projector,
	rad *radiation.Model, solar radiation.SolarSchedule, cfg Config) *Engine {
	if cfg.CFL <= 0 {
		cfg.CFL = 0.5
	}
	if cfg.MaxDt <= 0 {
		cfg.MaxDt = 10
	}
	return &Engine{
		g:     g,
		mom:   mom,
		proj:  proj,
		rad:   rad,
		solar: solar,
		cfg:   cfg,
		log:   slog.Default(),
	}
}

// SetLogger replaces the default slog logger.
func (e *Engine) SetLogger(l *slog.Logger) { e.log = l }

// AddMetric registers a per-step metric.
func (e *Engine) AddMetric(m Metric) { e.metrics = append(e.metrics, m) }

// AddObserver registers a per-step observer.
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// State returns the current run state.
func (e *Engine) State() RunState { return e.state }

// Clock returns a copy of the simulation clock.
func (e *Engine) Clock() Clock { return e.clock }

// Warnings returns the warnings accumulated so far.
func (e *Engine) Warnings() []Warning {
	out := make([]Warning, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// KineticEnergyTrace returns the per-step kinetic energy series.
func (e *Engine) KineticEnergyTrace() []float64 {
	out := make([]float64, len(e.keTrace))
	copy(out, e.keTrace)
	return out
}

// Snapshot returns an immutable copy of the current fields.
func (e *Engine) Snapshot() *grid.Snapshot { return e.g.Snapshot() }

// Abort signals the engine to stop before the next step. Safe to call from
// any goroutine; state is left at the last fully completed step.
func (e *Engine) Abort() { e.aborted.Store(true) }

// StableDt returns the next step size from the CFL condition
//
//	dt = C * min(dx,dy) / max|u,v|
//
// capped at MaxDt for near-calm flow.
func (e *Engine) StableDt() float64 {
	maxSpeed := e.g.MaxSpeed()
	if maxSpeed < 1e-12 {
		return e.cfg.MaxDt
	}
	dt := e.cfg.CFL * math.Min(e.g.DX, e.g.DY) / maxSpeed
	return math.Min(dt, e.cfg.MaxDt)
}

// Step advances the simulation by one time step: momentum prediction,
// pressure projection, scalar transport, radiative heating, boundary
// application, clock advance. A fatal solver error moves the engine to
// Aborted and preserves the previous state.
func (e *Engine) Step(ctx context.Context) (StepResult, error) {
	switch e.state {
	case Completed, Aborted:
		return StepResult{}, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}
	if e.aborted.Load() {
		e.state = Aborted
		return StepResult{}, ErrAborted
	}
	e.state = Running

	dt := e.StableDt()
	result := StepResult{Step: e.clock.Step, Dt: dt}

	uStar, vStar, err := e.mom.Predict(e.g, dt)
	if err != nil {
		e.state = Aborted
		return result, &StepError{Step: e.clock.Step, Time: e.clock.Time, Wrapped: err}
	}

	// Rollback copy: a fatal fault past this point must leave the grid at
	// the last completed step, and Project writes into the grid before its
	// divergence check can fail.
	prev := e.g.Snapshot()

	projRes, err := e.proj.Project(e.g, uStar, vStar, dt)
	if projRes.Warning != nil {
		w := Warning{Step: e.clock.Step, Message: projRes.Warning.String()}
		e.warnings = append(e.warnings, w)
		result.Warnings = append(result.Warnings, w)
		e.log.Warn("poisson solve did not converge",
			"step", e.clock.Step,
			"iterations", projRes.Warning.Iterations,
			"residual", projRes.Warning.Residual)
	}
	if err != nil {
		return result, e.failStep(prev, err)
	}

	e.scalarStep(dt)

	if e.cfg.RadiationEnabled {
		if err := e.radiativeStep(dt); err != nil {
			return result, e.failStep(prev, err)
		}
	}

	e.g.ApplyBoundary()

	if !e.g.T.IsValid() || !e.g.Q.IsValid() {
		return result, e.failStep(prev,
			fmt.Errorf("%w: NaN/Inf in scalar fields", grid.ErrUnstable))
	}

	e.clock.Step++
	e.clock.Time += dt
	e.clock.Dt = dt

	e.keTrace = append(e.keTrace, e.g.KineticEnergy())
	for _, m := range e.metrics {
		m.Observe(e.g, e.clock)
	}
	for _, o := range e.observers {
		o.OnStep(e.g, e.clock)
	}

	return result, nil
}

// failStep rolls the grid back to the pre-step snapshot and moves the
// engine to Aborted.
func (e *Engine) failStep(prev *grid.Snapshot, err error) error {
	if rerr := e.g.Restore(prev); rerr != nil {
		e.log.Error("rollback failed", "err", rerr)
	}
	e.state = Aborted
	return &StepError{Step: e.clock.Step, Time: e.clock.Time, Wrapped: err}
}

// scalarStep advects temperature with the corrected wind and diffuses
// temperature and humidity. Humidity is not advected; it is treated as a
// column-supplied field for radiation and diagnostics.
func (e *Engine) scalarStep(dt float64) {
	g := e.g
	n := g.Cells()
	if len(e.scratchT) != n {
		e.scratchT = make(grid.Field, n)
		e.scratchQ = make(grid.Field, n)
	}
	copy(e.scratchT, g.T)
	copy(e.scratchQ, g.Q)

	nx := g.NX
	kT := e.cfg.ThermalDiffusivity
	kQ := e.cfg.HumidityDiffusivity
	interior := g.NY - 2

	parallel.For(interior, 4, func(start, end int) {
		for jj := start; jj < end; jj++ {
			j := jj + 1
			for i := 1; i < nx-1; i++ {
				k := j*nx + i
				u, v := g.U[k], g.V[k]

				// Upwind thermal advection.
				var dTdx, dTdy float64
				if u > 0 {
					dTdx = (g.T[k] - g.T[k-1]) / g.DX
				} else {
					dTdx = (g.T[k+1] - g.T[k]) / g.DX
				}
				if v > 0 {
					dTdy = (g.T[k] - g.T[k-nx]) / g.DY
				} else {
					dTdy = (g.T[k+nx] - g.T[k]) / g.DY
				}

				adv := -(u*dTdx + v*dTdy)
				e.scratchT[k] = g.T[k] + dt*(adv+kT*momentum.Laplacian(g, g.T, i, j))
				e.scratchQ[k] = g.Q[k] + dt*kQ*momentum.Laplacian(g, g.Q, i, j)
				if e.scratchQ[k] < 0 {
					e.scratchQ[k] = 0
				}
			}
		}
	})

	copy(g.T, e.scratchT)
	copy(g.Q, e.scratchQ)
}

// radiativeStep integrates the column fluxes and applies layer heating to
// the temperature field. Columns are independent, so they map in parallel.
func (e *Engine) radiativeStep(dt float64) error {
	g := e.g
	zenith := e.solar.Zenith(e.clock.Time)
	nx := g.NX

	errs := make([]error, nx)
	parallel.For(nx, 2, func(start, end int) {
		for i := start; i < end; i++ {
			col, err := g.ExtractColumn(i)
			if err != nil {
				errs[i] = err
				continue
			}
			fl, err := e.rad.Integrate(col, zenith)
			if err != nil {
				errs[i] = err
				continue
			}
			// Layer k sits between levels k and k+1; apply its heating to
			// the lower cell.
			for k, h := range fl.Heating {
				g.T[g.Idx(i, k)] += dt * h
			}
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Run advances n steps or stops early on a fatal error, context
// cancellation, or an abort signal checked between steps.
func (e *Engine) Run(ctx context.Context, n int) (FinalStatus, error) {
	start := e.clock.Step
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			e.state = Aborted
			return e.finalStatus(start, ctx.Err()), ctx.Err()
		default:
		}
		if e.aborted.Load() {
			e.state = Aborted
			return e.finalStatus(start, ErrAborted), nil
		}

		if _, err := e.Step(ctx); err != nil {
			return e.finalStatus(start, err), err
		}
	}
	e.state = Completed
	return e.finalStatus(start, nil), nil
}

func (e *Engine) finalStatus(startStep int, err error) FinalStatus {
	st := FinalStatus{
		State:          e.state,
		StepsCompleted: e.clock.Step - startStep,
		Warnings:       e.Warnings(),
		Metrics:        make(map[string]float64, len(e.metrics)),
		Err:            err,
	}
	for _, m := range e.metrics {
		st.Metrics[m.Name()] = m.Value()
	}
	return st
}

// Diagnose lifts a parcel in every column and returns one report per
// column. Read-only: repeated calls on an unchanged state return identical
// reports.
func (e *Engine) Diagnose(ctx context.Context) ([]thermo.Report, error) {
	nx := e.g.NX
	reports := make([]thermo.Report, nx)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i := 0; i < nx; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col, err := e.g.ExtractColumn(i)
			if err != nil {
				return err
			}
			reports[i] = thermo.Analyze(col)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
