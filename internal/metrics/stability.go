package metrics

import (
	"math"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/sim"
)

// PeakWind reports the largest velocity component magnitude seen across the
// whole run.
type PeakWind struct {
	name string
	peak float64
}

func NewPeakWind() *PeakWind {
	return &PeakWind{name: "peak_wind"}
}

func (p *PeakWind) Name() string { return p.name }

func (p *PeakWind) Observe(g *grid.Grid, c sim.Clock) {
	if s := g.MaxSpeed(); s > p.peak {
		p.peak = s
	}
}

func (p *PeakWind) Value() float64 { return p.peak }

func (p *PeakWind) Reset() { p.peak = 0 }

// MaxDivergence reports the worst interior velocity divergence seen across
// the run. On a healthy run it stays at the projection tolerance.
type MaxDivergence struct {
	name    string
	worst   float64
	scratch grid.Field
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (m *MaxDivergence) Name() string { return m.name }

func (m *MaxDivergence) Observe(g *grid.Grid, c sim.Clock) {
	if len(m.scratch) != g.Cells() {
		m.scratch = make(grid.Field, g.Cells())
	}
	m.scratch.Fill(0)
	g.Divergence(g.U, g.V, m.scratch)
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < g.NX-1; i++ {
			if d := math.Abs(m.scratch[g.Idx(i, j)]); d > m.worst {
				m.worst = d
			}
		}
	}
}

func (m *MaxDivergence) Value() float64 { return m.worst }

func (m *MaxDivergence) Reset() { m.worst = 0 }

// MeanStepSize reports the average dt chosen by the CFL controller.
type MeanStepSize struct {
	name    string
	sum     float64
	samples int
}

func NewMeanStepSize() *MeanStepSize {
	return &MeanStepSize{name: "mean_dt"}
}

func (m *MeanStepSize) Name() string { return m.name }

func (m *MeanStepSize) Observe(g *grid.Grid, c sim.Clock) {
	m.sum += c.Dt
	m.samples++
}

func (m *MeanStepSize) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanStepSize) Reset() {
	m.sum = 0
	m.samples = 0
}
