package grid

import (
	"errors"
	"math"
	"testing"
)

func TestAllocateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny int
		dx, dy float64
	}{
		{"nx too small", 2, 10, 1, 1},
		{"ny too small", 10, 2, 1, 1},
		{"zero dx", 10, 10, 0, 1},
		{"negative dy", 10, 10, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.nx, tt.ny, tt.dx, tt.dy, Uniform(Open))
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestAllocatePeriodicMismatch(t *testing.T) {
	b := Uniform(Open)
	b.West = Periodic
	_, err := Allocate(8, 8, 1, 1, b)
	if !errors.Is(err, ErrBoundaryMismatch) {
		t.Errorf("expected ErrBoundaryMismatch, got %v", err)
	}
}

func TestAccessorsBounds(t *testing.T) {
	g, err := Allocate(4, 5, 1, 1, Uniform(Open))
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	if err := g.Set(g.T, 2, 3, 280); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := g.At(g.T, 2, 3)
	if err != nil || v != 280 {
		t.Errorf("got (%v, %v), want (280, nil)", v, err)
	}

	for _, idx := range [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 5}} {
		if _, err := g.At(g.T, idx[0], idx[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d,%d): expected ErrOutOfBounds, got %v", idx[0], idx[1], err)
		}
	}
}

func TestNoSlipBoundary(t *testing.T) {
	g, _ := Allocate(6, 6, 1, 1, Uniform(NoSlip))
	g.U.Fill(3)
	g.V.Fill(-2)
	g.ApplyBoundary()

	// Tangential velocity at every wall must be exactly zero.
	for j := 0; j < g.NY; j++ {
		if v := g.V[g.Idx(0, j)]; v != 0 {
			t.Errorf("west wall v[0,%d] = %g, want 0", j, v)
		}
		if v := g.V[g.Idx(g.NX-1, j)]; v != 0 {
			t.Errorf("east wall v = %g, want 0", v)
		}
	}
	for i := 0; i < g.NX; i++ {
		if u := g.U[g.Idx(i, 0)]; u != 0 {
			t.Errorf("south wall u[%d,0] = %g, want 0", i, u)
		}
		if u := g.U[g.Idx(i, g.NY-1)]; u != 0 {
			t.Errorf("north wall u = %g, want 0", u)
		}
	}

	// Normal velocity mirrored so the wall-interpolated value vanishes.
	if got := g.U[g.Idx(0, 2)]; got != -g.U[g.Idx(1, 2)] {
		t.Errorf("west ghost u = %g, want %g", got, -g.U[g.Idx(1, 2)])
	}
}

func TestPeriodicBoundaryWraps(t *testing.T) {
	g, _ := Allocate(5, 5, 1, 1, Uniform(Periodic))
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			g.T[g.Idx(i, j)] = float64(10*i + j)
		}
	}
	g.ApplyBoundary()

	for j := 1; j < 4; j++ {
		if got, want := g.T[g.Idx(0, j)], g.T[g.Idx(3, j)]; got != want {
			t.Errorf("west edge T[0,%d] = %g, want wrap %g", j, got, want)
		}
		if got, want := g.T[g.Idx(4, j)], g.T[g.Idx(1, j)]; got != want {
			t.Errorf("east edge T = %g, want wrap %g", got, want)
		}
	}
}

func TestOpenBoundaryZeroGradient(t *testing.T) {
	g, _ := Allocate(5, 5, 1, 1, Uniform(Open))
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			g.U[g.Idx(i, j)] = float64(i + j)
		}
	}
	g.ApplyBoundary()
	if got, want := g.U[g.Idx(0, 2)], g.U[g.Idx(1, 2)]; got != want {
		t.Errorf("west edge u = %g, want interior %g", got, want)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g, _ := Allocate(4, 4, 1, 1, Uniform(Open))
	g.T.Fill(290)
	snap := g.Snapshot()

	snap.T[0] = 999
	if g.T[0] != 290 {
		t.Error("mutating snapshot leaked into grid state")
	}

	g.T.Fill(250)
	if snap.T[5] != 290 {
		t.Error("mutating grid leaked into snapshot")
	}
}

func TestExtractColumnHydrostatic(t *testing.T) {
	g, _ := Allocate(4, 10, 1000, 500, Uniform(Open))
	g.T.Fill(288)
	g.Q.Fill(0.008)

	col, err := g.ExtractColumn(2)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if col.Levels() != 10 {
		t.Fatalf("levels = %d, want 10", col.Levels())
	}
	if math.Abs(col.Pressure[0]-1000) > 1e-9 {
		t.Errorf("surface pressure = %g, want 1000", col.Pressure[0])
	}
	for j := 1; j < col.Levels(); j++ {
		if col.Pressure[j] >= col.Pressure[j-1] {
			t.Fatalf("pressure not decreasing at level %d", j)
		}
	}

	if _, err := g.ExtractColumn(7); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for column 7, got %v", err)
	}
}

func TestDivergenceOfUniformFlowIsZero(t *testing.T) {
	g, _ := Allocate(8, 8, 2, 2, Uniform(Open))
	g.U.Fill(5)
	g.V.Fill(-3)

	div := make(Field, g.Cells())
	g.Divergence(g.U, g.V, div)
	for k, d := range div {
		if d != 0 {
			t.Fatalf("div[%d] = %g, want 0", k, d)
		}
	}
}
