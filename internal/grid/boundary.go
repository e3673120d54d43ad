package grid

// ApplyBoundary rewrites the edge cells of every prognostic field according
// to the per-edge policy. Edge cells act as ghost values for the interior
// stencils, so this must run after every field update.
func (g *Grid) ApplyBoundary() {
	g.applyWestEast()
	g.applySouthNorth()
}

func (g *Grid) applyWestEast() {
	nx := g.NX
	for j := 0; j < g.NY; j++ {
		w, e := g.Idx(0, j), g.Idx(nx-1, j)
		wi, ei := g.Idx(1, j), g.Idx(nx-2, j)

		switch g.Bounds.West {
		case Periodic:
			// Both edges wrap; East is guaranteed Periodic by Allocate.
			for _, f := range g.fields() {
				f[w] = f[ei]
				f[e] = f[wi]
			}
			continue
		case NoSlip:
			g.U[w] = -g.U[wi] // normal component mirrored
			g.V[w] = 0        // tangential component pinned to the wall
			g.P[w], g.T[w], g.Q[w] = g.P[wi], g.T[wi], g.Q[wi]
		case Open:
			g.U[w], g.V[w] = g.U[wi], g.V[wi]
			g.P[w], g.T[w], g.Q[w] = g.P[wi], g.T[wi], g.Q[wi]
		}

		switch g.Bounds.East {
		case NoSlip:
			g.U[e] = -g.U[ei]
			g.V[e] = 0
			g.P[e], g.T[e], g.Q[e] = g.P[ei], g.T[ei], g.Q[ei]
		case Open:
			g.U[e], g.V[e] = g.U[ei], g.V[ei]
			g.P[e], g.T[e], g.Q[e] = g.P[ei], g.T[ei], g.Q[ei]
		}
	}
}

func (g *Grid) applySouthNorth() {
	ny := g.NY
	for i := 0; i < g.NX; i++ {
		s, n := g.Idx(i, 0), g.Idx(i, ny-1)
		si, ni := g.Idx(i, 1), g.Idx(i, ny-2)

		switch g.Bounds.South {
		case Periodic:
			for _, f := range g.fields() {
				f[s] = f[ni]
				f[n] = f[si]
			}
			continue
		case NoSlip:
			g.U[s] = 0
			g.V[s] = -g.V[si]
			g.P[s], g.T[s], g.Q[s] = g.P[si], g.T[si], g.Q[si]
		case Open:
			g.U[s], g.V[s] = g.U[si], g.V[si]
			g.P[s], g.T[s], g.Q[s] = g.P[si], g.T[si], g.Q[si]
		}

		switch g.Bounds.North {
		case NoSlip:
			g.U[n] = 0
			g.V[n] = -g.V[ni]
			g.P[n], g.T[n], g.Q[n] = g.P[ni], g.T[ni], g.Q[ni]
		case Open:
			g.U[n], g.V[n] = g.U[ni], g.V[ni]
			g.P[n], g.T[n], g.Q[n] = g.P[ni], g.T[ni], g.Q[ni]
		}
	}
}

func (g *Grid) fields() [5]Field {
	return [5]Field{g.U, g.V, g.P, g.T, g.Q}
}

// ApplyScalarBoundary rewrites the edge cells of a standalone scalar field
// (such as the pressure-correction potential) with zero-gradient walls and
// wrapping on periodic edges. Neumann conditions keep the Poisson problem
// consistent with the wall policies.
func (g *Grid) ApplyScalarBoundary(f Field) {
	nx, ny := g.NX, g.NY
	for j := 0; j < ny; j++ {
		if g.Bounds.West == Periodic {
			f[g.Idx(0, j)] = f[g.Idx(nx-2, j)]
			f[g.Idx(nx-1, j)] = f[g.Idx(1, j)]
		} else {
			f[g.Idx(0, j)] = f[g.Idx(1, j)]
			f[g.Idx(nx-1, j)] = f[g.Idx(nx-2, j)]
		}
	}
	for i := 0; i < nx; i++ {
		if g.Bounds.South == Periodic {
			f[g.Idx(i, 0)] = f[g.Idx(i, ny-2)]
			f[g.Idx(i, ny-1)] = f[g.Idx(i, 1)]
		} else {
			f[g.Idx(i, 0)] = f[g.Idx(i, 1)]
			f[g.Idx(i, ny-1)] = f[g.Idx(i, ny-2)]
		}
	}
}

// Divergence writes the forward-difference divergence of (uf, vf) into out
// for every interior cell. Edge cells are left at zero. Forward divergence
// pairs with the backward pressure-gradient correction so their composition
// is the compact 5-point Laplacian the Poisson solver relaxes; the wide
// central pairing would leave checkerboard divergence the solve cannot see.
func (g *Grid) Divergence(uf, vf, out Field) {
	nx := g.NX
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < nx-1; i++ {
			k := j*nx + i
			out[k] = (uf[k+1]-uf[k])/g.DX + (vf[k+nx]-vf[k])/g.DY
		}
	}
}
