package grid

import "math"

// Column is a vertical profile at one horizontal index, ordered from the
// surface (level 0) to the top of the model. Pressure is in hPa.
type Column struct {
	Index       int
	Pressure    []float64 // hPa, strictly decreasing with level
	Temperature []float64 // K
	Humidity    []float64 // kg/kg
	Height      []float64 // m above the surface
}

// Levels returns the number of vertical levels in the column.
func (c Column) Levels() int { return len(c.Pressure) }

// ExtractColumn builds the vertical profile at horizontal index i. Level
// pressures follow the hydrostatic reference profile plus the local
// perturbation; temperature and humidity are read straight from the state.
func (g *Grid) ExtractColumn(i int) (Column, error) {
	if i < 0 || i >= g.NX {
		return Column{}, &BoundsError{I: i, J: 0, NX: g.NX, NY: g.NY}
	}
	ny := g.NY
	col := Column{
		Index:       i,
		Pressure:    make([]float64, ny),
		Temperature: make([]float64, ny),
		Humidity:    make([]float64, ny),
		Height:      make([]float64, ny),
	}
	for j := 0; j < ny; j++ {
		k := g.Idx(i, j)
		z := float64(j) * g.DY
		col.Height[j] = z
		col.Pressure[j] = g.SurfacePressure*math.Exp(-z/g.ScaleHeight) + g.P[k]/100.0
		col.Temperature[j] = g.T[k]
		col.Humidity[j] = g.Q[k]
	}
	return col, nil
}
