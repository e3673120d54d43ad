package thermo

import (
	"fmt"
	"math"

	"github.com/san-kum/atmodyn/internal/grid"
)

// Stability classifies a column by its CAPE.
type Stability int

const (
	Stable Stability = iota
	MarginallyUnstable
	Unstable
)

func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case MarginallyUnstable:
		return "marginally-unstable"
	case Unstable:
		return "unstable"
	}
	return fmt.Sprintf("Stability(%d)", int(s))
}

// CAPE thresholds (J/kg) separating the classification bands.
const (
	capeMarginal = 500.0
	capeSevere   = 2500.0
)

// Inhibition classifies a column by the magnitude of its CIN.
type Inhibition int

const (
	NoInhibition Inhibition = iota
	TriggerInhibition
	StrongCap
)

func (i Inhibition) String() string {
	switch i {
	case NoInhibition:
		return "none"
	case TriggerInhibition:
		return "trigger-inhibition"
	case StrongCap:
		return "strong-cap"
	}
	return fmt.Sprintf("Inhibition(%d)", int(i))
}

// CIN-magnitude thresholds (J/kg) separating the inhibition bands.
const (
	cinTrigger   = 50.0
	cinStrongCap = 200.0
)

// Report holds the instability diagnostics for one column. Reports are
// value types produced fresh per call and never reference solver state.
type Report struct {
	Column      int
	CAPE        float64 // J/kg, >= 0
	CIN         float64 // J/kg, <= 0
	LiftedIndex float64 // K, positive = stable at 500 hPa
	LFCLevel    int     // level index of free convection, -1 if none
	LNBLevel    int     // level of neutral buoyancy, -1 if none
	Class       Stability
	Inhibition  Inhibition
}

// moistSubsteps refines the pseudo-adiabatic integration inside one layer.
const moistSubsteps = 10

// LiftParcel lifts a surface parcel through the column and returns its
// temperature at every level. The parcel follows the dry adiabat (constant
// potential temperature, conserved mixing ratio) until saturation, then the
// pseudo-adiabatic moist lapse integrated in pressure substeps.
func LiftParcel(col grid.Column) []float64 {
	n := col.Levels()
	tp := make([]float64, n)
	if n == 0 {
		return tp
	}

	tp[0] = col.Temperature[0]
	w0 := col.Humidity[0] / (1 - col.Humidity[0]) // specific humidity -> mixing ratio
	theta := PotentialTemperature(tp[0], col.Pressure[0])
	saturated := SaturationMixingRatio(col.Pressure[0], tp[0]) <= w0

	for k := 1; k < n; k++ {
		pPrev, p := col.Pressure[k-1], col.Pressure[k]
		t := tp[k-1]

		if !saturated {
			tDry := theta * math.Pow(p/P0, RdOverCp)
			if SaturationMixingRatio(p, tDry) <= w0 {
				saturated = true
				// The parcel condensed somewhere inside this layer; starting
				// the moist integration from the dry endpoint slightly
				// underestimates the moist correction for one layer.
				t = tDry
			} else {
				tp[k] = tDry
				continue
			}
		} else {
			dp := (p - pPrev) / moistSubsteps
			pc := pPrev
			for s := 0; s < moistSubsteps; s++ {
				t += MoistLapseDTdp(pc, t) * dp
				pc += dp
			}
		}
		tp[k] = t
	}
	return tp
}

// Analyze lifts a surface parcel and integrates its buoyancy into CAPE and
// CIN:
//
//	E_layer = Rd * (Tp_mean - Te_mean) * ln(p_bottom/p_top)
//
// CIN accumulates negative area below the level of free convection, CAPE
// positive area from there to the level of neutral buoyancy. A column with
// no level of free convection is stable with CAPE = CIN = 0.
func Analyze(col grid.Column) Report {
	r := Report{Column: col.Index, LFCLevel: -1, LNBLevel: -1}
	n := col.Levels()
	if n < 2 {
		return r
	}

	tp := LiftParcel(col)
	te := col.Temperature

	energy := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		tpMean := 0.5 * (tp[k] + tp[k+1])
		teMean := 0.5 * (te[k] + te[k+1])
		energy[k] = Rd * (tpMean - teMean) * math.Log(col.Pressure[k]/col.Pressure[k+1])
	}

	lfc := -1
	for k, e := range energy {
		if e > 0 {
			lfc = k
			break
		}
	}
	if lfc < 0 {
		r.LiftedIndex = liftedIndex(col, tp)
		return r // no free convection: CAPE = CIN = 0, stable
	}
	r.LFCLevel = lfc

	for k := 0; k < lfc; k++ {
		if energy[k] < 0 {
			r.CIN += energy[k]
		}
	}

	lnb := n - 1
	for k := lfc; k < n-1; k++ {
		if energy[k] <= 0 {
			lnb = k
			break
		}
		r.CAPE += energy[k]
	}
	r.LNBLevel = lnb

	r.LiftedIndex = liftedIndex(col, tp)
	switch {
	case r.CAPE >= capeSevere:
		r.Class = Unstable
	case r.CAPE >= capeMarginal:
		r.Class = MarginallyUnstable
	default:
		r.Class = Stable
	}
	r.Inhibition = classifyInhibition(r.CIN)
	return r
}

// classifyInhibition bands the CIN magnitude: above 50 J/kg convection needs
// a trigger, above 200 J/kg a capping inversion effectively blocks it.
func classifyInhibition(cin float64) Inhibition {
	switch mag := -cin; {
	case mag > cinStrongCap:
		return StrongCap
	case mag > cinTrigger:
		return TriggerInhibition
	}
	return NoInhibition
}

// liftedIndex returns Te - Tp at 500 hPa, interpolated in log pressure. A
// column that never reaches 500 hPa uses its topmost level.
func liftedIndex(col grid.Column, tp []float64) float64 {
	n := col.Levels()
	const target = 500.0

	if col.Pressure[n-1] > target {
		return col.Temperature[n-1] - tp[n-1]
	}
	for k := 0; k < n-1; k++ {
		p1, p2 := col.Pressure[k], col.Pressure[k+1]
		if p1 >= target && p2 <= target {
			f := math.Log(p1/target) / math.Log(p1/p2)
			teI := col.Temperature[k] + f*(col.Temperature[k+1]-col.Temperature[k])
			tpI := tp[k] + f*(tp[k+1]-tp[k])
			return teI - tpI
		}
	}
	return col.Temperature[n-1] - tp[n-1]
}
