package grid

// Snapshot is an immutable deep copy of the grid state handed to external
// consumers. Mutating a snapshot never affects the running simulation.
type Snapshot struct {
	NX, NY int
	DX, DY float64
	U, V   Field
	P      Field
	T      Field
	Q      Field
}

// Snapshot copies the current state.
func (g *Grid) Snapshot() *Snapshot {
	return &Snapshot{
		NX: g.NX, NY: g.NY,
		DX: g.DX, DY: g.DY,
		U: g.U.Clone(),
		V: g.V.Clone(),
		P: g.P.Clone(),
		T: g.T.Clone(),
		Q: g.Q.Clone(),
	}
}

// Restore overwrites the grid fields from a snapshot taken on a grid of the
// same shape. Used to roll back to the last completed step after an abort.
func (g *Grid) Restore(s *Snapshot) error {
	if s.NX != g.NX || s.NY != g.NY {
		return ErrInvalidGrid
	}
	copy(g.U, s.U)
	copy(g.V, s.V)
	copy(g.P, s.P)
	copy(g.T, s.T)
	copy(g.Q, s.Q)
	return nil
}

// At reads one cell of a snapshot field.
func (s *Snapshot) At(f Field, i, j int) float64 { return f[j*s.NX+i] }
