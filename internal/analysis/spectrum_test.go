package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumFindsSine(t *testing.T) {
	// 128 samples of a sine with period 16 steps.
	n := 128
	series := make([]float64, n)
	for i := range series {
		series[i] = 5 + 2*math.Sin(2*math.Pi*float64(i)/16)
	}

	sp, err := PowerSpectrum(series)
	if err != nil {
		t.Fatal(err)
	}
	period := sp.DominantPeriod()
	if math.Abs(period-16) > 0.5 {
		t.Errorf("dominant period = %g steps, want 16", period)
	}
}

func TestPowerSpectrumConstantSeries(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		series[i] = 3.25
	}
	sp, err := PowerSpectrum(series)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range sp.Power {
		if p > 1e-18 {
			t.Errorf("bin %d has power %g for a constant series", i, p)
		}
	}
	if sp.DominantPeriod() != 0 {
		t.Errorf("constant series reports period %g", sp.DominantPeriod())
	}
}

func TestPowerSpectrumTooShort(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1, 2}); err == nil {
		t.Error("expected error for short series")
	}
}
