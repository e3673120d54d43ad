// Package momentum advances the horizontal velocity field through the
// advection, diffusion, pressure-gradient, and body-force terms of the 2D
// incompressible Navier-Stokes momentum equations. The output is the
// provisional (non-divergence-free) field the pressure projection corrects.
package momentum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/parallel"
)

// Scheme selects the advection discretization.
type Scheme int

const (
	// Upwind uses sign-switched one-sided differences. First order, but
	// monotone near sharp gradients.
	Upwind Scheme = iota
	// Central uses second-order centered differences. Oscillatory unless
	// viscosity is high; kept for smooth-flow configurations.
	Central
)

// ParseScheme maps a config string to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "upwind", "":
		return Upwind, nil
	case "central":
		return Central, nil
	}
	return 0, fmt.Errorf("momentum: unknown advection scheme %q", s)
}

// Solver computes the provisional velocity field u*, v*.
type Solver struct {
	Nu     float64 // kinematic viscosity (m^2/s)
	Rho    float64 // air density (kg/m^3)
	Scheme Scheme

	// SpeedCeiling is the blow-up detector: any provisional velocity
	// magnitude above it fails the step with grid.ErrUnstable.
	SpeedCeiling float64

	uStar, vStar grid.Field
}

// New returns a solver with the given physical parameters.
func New(nu, rho, speedCeiling float64, scheme Scheme) *Solver {
	return &Solver{Nu: nu, Rho: rho, SpeedCeiling: speedCeiling, Scheme: scheme}
}

// Predict computes the provisional field
//
//	u* = u + dt*(-(u·∇)u - (1/ρ)∂p/∂x + ν∇²u + fx)
//
// over the grid interior. The returned slices are owned by the solver and
// valid until the next Predict call. Fails with grid.ErrUnstable when any
// component exceeds the speed ceiling.
func (s *Solver) Predict(g *grid.Grid, dt float64) (grid.Field, grid.Field, error) {
	n := g.Cells()
	if len(s.uStar) != n {
		s.uStar = make(grid.Field, n)
		s.vStar = make(grid.Field, n)
	}
	copy(s.uStar, g.U)
	copy(s.vStar, g.V)

	nx := g.NX
	interior := g.NY - 2

	// Row-parallel sweep: every interior cell is written by exactly one
	// worker, and all reads come from the previous-step fields.
	parallel.For(interior, 4, func(start, end int) {
		for jj := start; jj < end; jj++ {
			j := jj + 1
			for i := 1; i < nx-1; i++ {
				k := j*nx + i
				u, v := g.U[k], g.V[k]

				advU := s.advect(g, g.U, i, j, u, v)
				advV := s.advect(g, g.V, i, j, u, v)

				lapU := laplacian(g, g.U, k)
				lapV := laplacian(g, g.V, k)

				dpdx := (g.P[k+1] - g.P[k-1]) / (2 * g.DX)
				dpdy := (g.P[k+nx] - g.P[k-nx]) / (2 * g.DY)

				s.uStar[k] = u + dt*(advU-dpdx/s.Rho+s.Nu*lapU+g.FX[k])
				s.vStar[k] = v + dt*(advV-dpdy/s.Rho+s.Nu*lapV+g.FY[k])
			}
		}
	})

	if peak := math.Max(floats.Norm(s.uStar, math.Inf(1)), floats.Norm(s.vStar, math.Inf(1))); peak > s.SpeedCeiling {
		return nil, nil, fmt.Errorf("%w: provisional speed %.3g m/s exceeds ceiling %.3g m/s",
			grid.ErrUnstable, peak, s.SpeedCeiling)
	}
	if !s.uStar.IsValid() || !s.vStar.IsValid() {
		return nil, nil, fmt.Errorf("%w: NaN/Inf in provisional velocity", grid.ErrUnstable)
	}

	return s.uStar, s.vStar, nil
}

// advect returns -(u ∂f/∂x + v ∂f/∂y) at interior cell (i,j).
func (s *Solver) advect(g *grid.Grid, f grid.Field, i, j int, u, v float64) float64 {
	nx := g.NX
	k := j*nx + i

	var dfdx, dfdy float64
	switch s.Scheme {
	case Central:
		dfdx = (f[k+1] - f[k-1]) / (2 * g.DX)
		dfdy = (f[k+nx] - f[k-nx]) / (2 * g.DY)
	default: // Upwind: difference against the side the flow comes from
		if u > 0 {
			dfdx = (f[k] - f[k-1]) / g.DX
		} else {
			dfdx = (f[k+1] - f[k]) / g.DX
		}
		if v > 0 {
			dfdy = (f[k] - f[k-nx]) / g.DY
		} else {
			dfdy = (f[k+nx] - f[k]) / g.DY
		}
	}
	return -(u*dfdx + v*dfdy)
}

func laplacian(g *grid.Grid, f grid.Field, k int) float64 {
	nx := g.NX
	return (f[k+1]-2*f[k]+f[k-1])/(g.DX*g.DX) + (f[k+nx]-2*f[k]+f[k-nx])/(g.DY*g.DY)
}

// Laplacian exposes the central second-difference stencil for the scalar
// diffusion sub-step.
func Laplacian(g *grid.Grid, f grid.Field, i, j int) float64 {
	return laplacian(g, f, j*g.NX+i)
}
