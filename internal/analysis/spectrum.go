// Package analysis post-processes run traces. Currently: power spectra of
// the kinetic energy series, for spotting oscillatory modes in a run.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is a one-sided power spectrum of a uniformly sampled series.
type Spectrum struct {
	Power []float64 // per-bin power, DC first
	Freqs []float64 // cycles per step
}

// PowerSpectrum computes the one-sided power spectrum of series. The mean is
// removed first so the DC bin does not swamp the dynamics.
func PowerSpectrum(series []float64) (*Spectrum, error) {
	n := len(series)
	if n < 4 {
		return nil, fmt.Errorf("analysis: series too short (%d samples)", n)
	}

	detrended := make([]float64, n)
	copy(detrended, series)
	mean := floats.Sum(detrended) / float64(n)
	floats.AddConst(-mean, detrended)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, detrended)

	bins := len(coeffs)
	sp := &Spectrum{
		Power: make([]float64, bins),
		Freqs: make([]float64, bins),
	}
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		sp.Power[i] = (re*re + im*im) / float64(n)
		sp.Freqs[i] = fft.Freq(i)
	}
	return sp, nil
}

// DominantPeriod returns the period (in steps) of the strongest non-DC
// spectral peak, or 0 if the series has no oscillatory content.
func (s *Spectrum) DominantPeriod() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	best := 1
	for i := 2; i < len(s.Power); i++ {
		if s.Power[i] > s.Power[best] {
			best = i
		}
	}
	if s.Power[best] == 0 || s.Freqs[best] == 0 {
		return 0
	}
	return 1 / s.Freqs[best]
}
