// Package metrics provides per-step observers for simulation runs. Each
// metric accumulates over the steps it observes and reports a single value.
package metrics

import (
	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/sim"
)

// KineticEnergy reports the mean domain-integrated kinetic energy over the
// observed steps.
type KineticEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(g *grid.Grid, c sim.Clock) {
	k.sum += g.KineticEnergy()
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.samples = 0
}

// EnergyDrift reports the largest relative change in kinetic energy from the
// first observed step. Useful for spotting slow blow-ups that stay under the
// hard velocity ceiling.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(g *grid.Grid, c sim.Clock) {
	ke := g.KineticEnergy()
	if e.samples == 0 {
		e.initial = ke
	}
	e.samples++
	if e.initial == 0 {
		return
	}
	drift := (ke - e.initial) / e.initial
	if drift < 0 {
		drift = -drift
	}
	if drift > e.maxDrift {
		e.maxDrift = drift
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
