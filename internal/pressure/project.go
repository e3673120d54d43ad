package pressure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/atmodyn/internal/grid"
)

// ConvergenceWarning reports a Poisson solve that stopped at the iteration
// cap before reaching tolerance. Non-fatal: the best available correction
// was still applied.
type ConvergenceWarning struct {
	Iterations int
	Residual   float64
	Tol        float64
}

func (w ConvergenceWarning) String() string {
	return fmt.Sprintf("poisson solve stopped after %d iterations: residual %.3g > tol %.3g",
		w.Iterations, w.Residual, w.Tol)
}

// Result describes one projection.
type Result struct {
	Iterations    int
	Residual      float64
	MaxDivergence float64
	Warning       *ConvergenceWarning
}

// Projector removes the divergence of the provisional velocity field.
type Projector struct {
	Rho     float64
	Solver  Solver
	Tol     float64 // Poisson residual tolerance
	MaxIter int
	DivTol  float64 // post-projection divergence bound

	phi, rhs, div grid.Field
}

// NewProjector wires a projector to a relaxation solver.
func NewProjector(rho float64, solver Solver, tol float64, maxIter int, divTol float64) *Projector {
	return &Projector{Rho: rho, Solver: solver, Tol: tol, MaxIter: maxIter, DivTol: divTol}
}

// Project solves laplacian(phi) = (rho/dt) div(u*,v*), corrects the velocity
//
//	u = u* - (dt/rho) dphi/dx, v = v* - (dt/rho) dphi/dy
//
// writes the result into the grid, and accumulates phi into the pressure
// field. The corrected field must satisfy the divergence bound or the step
// fails with grid.ErrUnstable; a solve that merely missed tolerance is
// reported as a warning in the Result.
func (pr *Projector) Project(g *grid.Grid, uStar, vStar grid.Field, dt float64) (Result, error) {
	n := g.Cells()
	if len(pr.phi) != n {
		pr.phi = make(grid.Field, n)
		pr.rhs = make(grid.Field, n)
		pr.div = make(grid.Field, n)
	}
	pr.phi.Fill(0)
	pr.rhs.Fill(0)

	g.Divergence(uStar, vStar, pr.div)
	scale := pr.Rho / dt
	for k := range pr.rhs {
		pr.rhs[k] = scale * pr.div[k]
	}

	// The all-Neumann problem only has a solution for a zero-mean RHS;
	// remove the mean so boundary in/outflow cannot stall the relaxation.
	interiorZeroMean(g, pr.rhs)

	iters, res := pr.Solver.Solve(g, pr.phi, pr.rhs, pr.Tol, pr.MaxIter)

	result := Result{Iterations: iters, Residual: res}
	if res > pr.Tol {
		result.Warning = &ConvergenceWarning{Iterations: iters, Residual: res, Tol: pr.Tol}
	}

	// Velocity correction (backward differences, the adjoint of the forward
	// divergence) and incremental pressure update.
	nx := g.NX
	corr := dt / pr.Rho
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < nx-1; i++ {
			k := j*nx + i
			g.U[k] = uStar[k] - corr*(pr.phi[k]-pr.phi[k-1])/g.DX
			g.V[k] = vStar[k] - corr*(pr.phi[k]-pr.phi[k-nx])/g.DY
		}
	}
	floats.Add(g.P, pr.phi)
	g.ApplyBoundary()

	pr.div.Fill(0)
	g.Divergence(g.U, g.V, pr.div)
	result.MaxDivergence = floats.Norm(pr.div, math.Inf(1))
	if result.MaxDivergence > pr.DivTol {
		return result, fmt.Errorf("%w: post-projection divergence %.3g exceeds %.3g",
			grid.ErrUnstable, result.MaxDivergence, pr.DivTol)
	}
	return result, nil
}

func interiorZeroMean(g *grid.Grid, f grid.Field) {
	nx := g.NX
	sum, cells := 0.0, 0
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < nx-1; i++ {
			sum += f[j*nx+i]
			cells++
		}
	}
	mean := sum / float64(cells)
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < nx-1; i++ {
			f[j*nx+i] -= mean
		}
	}
}
