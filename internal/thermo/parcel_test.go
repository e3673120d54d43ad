package thermo

import (
	"math"
	"testing"

	"github.com/san-kum/atmodyn/internal/grid"
)

// column builds a profile with surface temperature tSfc (K), a linear lapse
// rate (K/km) up to capHeight (m), isothermal above, and uniform specific
// humidity q. Levels every 250 m to 12 km.
func column(tSfc, lapsePerKm, capHeight, q float64) grid.Column {
	const levels = 49
	col := grid.Column{
		Pressure:    make([]float64, levels),
		Temperature: make([]float64, levels),
		Humidity:    make([]float64, levels),
		Height:      make([]float64, levels),
	}
	capT := tSfc - lapsePerKm*capHeight/1000
	for k := 0; k < levels; k++ {
		z := float64(k) * 250
		col.Height[k] = z
		col.Pressure[k] = 1000 * math.Exp(-z/7000)
		if z <= capHeight {
			col.Temperature[k] = tSfc - lapsePerKm*z/1000
		} else {
			col.Temperature[k] = capT
		}
		col.Humidity[k] = q
	}
	return col
}

// dryNeutralColumn follows the dry adiabat in pressure coordinates exactly:
// constant potential temperature below the cap, isothermal above.
func dryNeutralColumn(tSfc, capHeight float64) grid.Column {
	const levels = 49
	col := grid.Column{
		Pressure:    make([]float64, levels),
		Temperature: make([]float64, levels),
		Humidity:    make([]float64, levels),
		Height:      make([]float64, levels),
	}
	capT := 0.0
	for k := 0; k < levels; k++ {
		z := float64(k) * 250
		col.Height[k] = z
		col.Pressure[k] = 1000 * math.Exp(-z/7000)
		if z <= capHeight {
			col.Temperature[k] = tSfc * math.Pow(col.Pressure[k]/1000, RdOverCp)
			capT = col.Temperature[k]
		} else {
			col.Temperature[k] = capT
		}
	}
	return col
}

func TestLiftParcelDryConservesTheta(t *testing.T) {
	col := column(300, 6.5, 12000, 0) // bone dry: parcel never saturates
	tp := LiftParcel(col)

	theta0 := PotentialTemperature(tp[0], col.Pressure[0])
	for k := range tp {
		theta := PotentialTemperature(tp[k], col.Pressure[k])
		if math.Abs(theta-theta0) > 1e-9 {
			t.Fatalf("level %d: theta %g, want conserved %g", k, theta, theta0)
		}
	}
}

func TestLiftParcelMoistWarmerThanDry(t *testing.T) {
	// A parcel saturated at the surface releases latent heat and stays
	// warmer than the dry adiabat aloft.
	qSat := SaturationMixingRatio(1000, 300) * 0.99 // just shy of ws, as specific humidity
	col := column(300, 6.5, 12000, qSat)
	tp := LiftParcel(col)

	theta0 := PotentialTemperature(tp[0], col.Pressure[0])
	dryTop := theta0 * math.Pow(col.Pressure[30]/P0, RdOverCp)
	if tp[30] <= dryTop {
		t.Errorf("moist parcel %g K not warmer than dry adiabat %g K", tp[30], dryTop)
	}
}

func TestAnalyzeStableColumnZeroCAPE(t *testing.T) {
	// Environment warmer than any lifted parcel everywhere: inversion-like
	// profile with a weak lapse rate and a dry parcel.
	col := column(288, 2.0, 12000, 0)
	r := Analyze(col)

	if r.CAPE != 0 {
		t.Errorf("CAPE = %g, want 0", r.CAPE)
	}
	if r.CIN != 0 {
		t.Errorf("CIN = %g, want 0 for the degenerate no-LFC case", r.CIN)
	}
	if r.Class != Stable {
		t.Errorf("class = %v, want stable", r.Class)
	}
	if r.LFCLevel != -1 {
		t.Errorf("LFC level = %d, want -1", r.LFCLevel)
	}
}

func TestAnalyzeDryAdiabaticThenIsothermal(t *testing.T) {
	// Surface 303 K following the dry adiabat to 5 km, isothermal above:
	// the parcel is never positively buoyant, so CAPE evaluates to zero.
	col := dryNeutralColumn(303, 5000)
	r := Analyze(col)

	if r.CAPE != 0 {
		t.Errorf("CAPE = %g, want 0 for a neutral-then-capped column", r.CAPE)
	}
	if r.CIN != 0 {
		t.Errorf("CIN = %g, want 0", r.CIN)
	}
	if r.Class != Stable {
		t.Errorf("class = %v, want stable", r.Class)
	}
}

func TestAnalyzeConvectiveColumn(t *testing.T) {
	// Warm, very moist surface under a steep environmental lapse rate.
	col := column(303, 7.5, 12000, 0.020)
	r := Analyze(col)

	if r.CAPE <= 500 {
		t.Errorf("CAPE = %g, expected substantial instability", r.CAPE)
	}
	if r.CIN > 0 {
		t.Errorf("CIN = %g, must never be positive", r.CIN)
	}
	if r.Class == Stable {
		t.Errorf("class = %v for CAPE %g, want unstable", r.Class, r.CAPE)
	}
	if r.LFCLevel < 0 {
		t.Error("expected a level of free convection")
	}
	if r.LNBLevel <= r.LFCLevel {
		t.Errorf("LNB %d not above LFC %d", r.LNBLevel, r.LFCLevel)
	}
}

func TestAnalyzeSignInvariants(t *testing.T) {
	profiles := []grid.Column{
		column(288, 2, 12000, 0),
		column(295, 6.5, 12000, 0.008),
		column(303, 7.5, 12000, 0.020),
		column(270, 9.0, 12000, 0.001),
		dryNeutralColumn(303, 5000),
	}
	for i, col := range profiles {
		r := Analyze(col)
		if r.CAPE < 0 {
			t.Errorf("profile %d: CAPE = %g < 0", i, r.CAPE)
		}
		if r.CIN > 0 {
			t.Errorf("profile %d: CIN = %g > 0", i, r.CIN)
		}
	}
}

func TestInhibitionBands(t *testing.T) {
	cases := []struct {
		cin  float64
		want Inhibition
	}{
		{0, NoInhibition},
		{-25, NoInhibition},
		{-50, NoInhibition},
		{-51, TriggerInhibition},
		{-150, TriggerInhibition},
		{-200, TriggerInhibition},
		{-201, StrongCap},
		{-800, StrongCap},
	}
	for _, c := range cases {
		if got := classifyInhibition(c.cin); got != c.want {
			t.Errorf("classifyInhibition(%g) = %v, want %v", c.cin, got, c.want)
		}
	}
}

func TestAnalyzeAnnotatesInhibition(t *testing.T) {
	// A column with no free convection carries no inhibition annotation.
	r := Analyze(column(288, 2, 12000, 0))
	if r.Inhibition != NoInhibition {
		t.Errorf("stable column inhibition = %v, want none", r.Inhibition)
	}

	// Any report's annotation agrees with its CIN band.
	for i, col := range []grid.Column{
		column(295, 6.5, 12000, 0.008),
		column(303, 7.5, 12000, 0.020),
	} {
		r := Analyze(col)
		if r.Inhibition != classifyInhibition(r.CIN) {
			t.Errorf("profile %d: inhibition %v disagrees with CIN %g", i, r.Inhibition, r.CIN)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	col := column(303, 7.5, 12000, 0.020)
	r1 := Analyze(col)
	r2 := Analyze(col)
	if r1 != r2 {
		t.Errorf("repeated analysis differs: %+v vs %+v", r1, r2)
	}
}

func TestAnalyzeTinyColumn(t *testing.T) {
	r := Analyze(grid.Column{Pressure: []float64{1000}, Temperature: []float64{290}, Humidity: []float64{0}})
	if r.CAPE != 0 || r.CIN != 0 || r.Class != Stable {
		t.Errorf("single-level column should be trivially stable, got %+v", r)
	}
}
