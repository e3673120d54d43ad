package grid

import (
	"fmt"
	"math"
)

// Field is a flat row-major scalar field: cell (i,j) lives at j*nx+i.
type Field []float64

// Clone returns an independent copy of the field.
func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// Fill sets every cell to v.
func (f Field) Fill(v float64) {
	for i := range f {
		f[i] = v
	}
}

// IsValid reports whether the field is free of NaN and Inf.
func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// BoundaryKind selects the treatment of one grid edge.
type BoundaryKind int

const (
	// NoSlip walls: tangential velocity is zero at the wall, normal velocity
	// mirrored, scalars zero-gradient.
	NoSlip BoundaryKind = iota
	// Periodic edges wrap to the opposite side.
	Periodic
	// Open edges extrapolate with zero gradient (outflow).
	Open
)

func (k BoundaryKind) String() string {
	switch k {
	case NoSlip:
		return "no-slip"
	case Periodic:
		return "periodic"
	case Open:
		return "open"
	}
	return fmt.Sprintf("BoundaryKind(%d)", int(k))
}

// ParseBoundaryKind maps a config string to a BoundaryKind.
func ParseBoundaryKind(s string) (BoundaryKind, error) {
	switch s {
	case "no-slip", "noslip", "wall":
		return NoSlip, nil
	case "periodic":
		return Periodic, nil
	case "open", "outflow":
		return Open, nil
	}
	return 0, fmt.Errorf("grid: unknown boundary kind %q", s)
}

// BoundaryPolicy fixes the treatment of each edge. West/East are the i=0 and
// i=nx-1 edges, South/North the j=0 (surface) and j=ny-1 (top) edges.
type BoundaryPolicy struct {
	West, East   BoundaryKind
	South, North BoundaryKind
}

// Uniform returns a policy applying the same kind to all four edges.
func Uniform(k BoundaryKind) BoundaryPolicy {
	return BoundaryPolicy{West: k, East: k, South: k, North: k}
}

// Grid owns the discretized simulation state for one run.
type Grid struct {
	NX, NY int
	DX, DY float64
	Bounds BoundaryPolicy

	// Prognostic fields, mutated in place each step.
	U, V Field // horizontal velocity components (m/s)
	P    Field // pressure perturbation (Pa, up to an additive constant)
	T    Field // temperature (K)
	Q    Field // specific humidity (kg/kg)

	// Body forces applied in the momentum step (m/s^2).
	FX, FY Field

	// SurfacePressure is the reference pressure at j=0 (hPa) used to build
	// hydrostatic vertical columns.
	SurfacePressure float64

	// ScaleHeight of the hydrostatic pressure profile (m).
	ScaleHeight float64
}

// Allocate validates the dimensions and returns a zeroed grid.
func Allocate(nx, ny int, dx, dy float64, bounds BoundaryPolicy) (*Grid, error) {
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("%w: %dx%d (minimum 3x3)", ErrInvalidGrid, nx, ny)
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("%w: spacing (%g,%g)", ErrInvalidGrid, dx, dy)
	}
	if (bounds.West == Periodic) != (bounds.East == Periodic) {
		return nil, fmt.Errorf("%w: west/east", ErrBoundaryMismatch)
	}
	if (bounds.South == Periodic) != (bounds.North == Periodic) {
		return nil, fmt.Errorf("%w: south/north", ErrBoundaryMismatch)
	}

	n := nx * ny
	g := &Grid{
		NX: nx, NY: ny,
		DX: dx, DY: dy,
		Bounds:          bounds,
		U:               make(Field, n),
		V:               make(Field, n),
		P:               make(Field, n),
		T:               make(Field, n),
		Q:               make(Field, n),
		FX:              make(Field, n),
		FY:              make(Field, n),
		SurfacePressure: 1000.0,
		ScaleHeight:     7000.0,
	}
	return g, nil
}

// Idx converts a cell coordinate to a flat field index. No bounds check;
// callers iterating stencils are expected to stay inside the grid.
func (g *Grid) Idx(i, j int) int { return j*g.NX + i }

// Cells returns the total cell count.
func (g *Grid) Cells() int { return g.NX * g.NY }

func (g *Grid) check(i, j int) error {
	if i < 0 || i >= g.NX || j < 0 || j >= g.NY {
		return &BoundsError{I: i, J: j, NX: g.NX, NY: g.NY}
	}
	return nil
}

// At reads one cell of a field with bounds checking.
func (g *Grid) At(f Field, i, j int) (float64, error) {
	if err := g.check(i, j); err != nil {
		return 0, err
	}
	return f[g.Idx(i, j)], nil
}

// Set writes one cell of a field with bounds checking.
func (g *Grid) Set(f Field, i, j int, v float64) error {
	if err := g.check(i, j); err != nil {
		return err
	}
	f[g.Idx(i, j)] = v
	return nil
}

// MaxSpeed returns the largest velocity component magnitude, the signal
// speed used for the CFL bound.
func (g *Grid) MaxSpeed() float64 {
	maxV := 0.0
	for k := range g.U {
		if a := math.Abs(g.U[k]); a > maxV {
			maxV = a
		}
		if a := math.Abs(g.V[k]); a > maxV {
			maxV = a
		}
	}
	return maxV
}

// KineticEnergy returns the total kinetic energy per unit mass density,
// 0.5*sum(u^2+v^2)*dx*dy.
func (g *Grid) KineticEnergy() float64 {
	ke := 0.0
	for k := range g.U {
		ke += 0.5 * (g.U[k]*g.U[k] + g.V[k]*g.V[k])
	}
	return ke * g.DX * g.DY
}
