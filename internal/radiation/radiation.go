// Package radiation integrates the plane-parallel Schwarzschild equation
// through a vertical column: broadband longwave with the two-stream
// approximation, shortwave as an attenuated direct beam. The flux divergence
// across each layer becomes the heating-rate forcing for the temperature
// field.
package radiation

import (
	"fmt"
	"math"

	"github.com/san-kum/atmodyn/internal/grid"
)

// Physical defaults.
const (
	defaultSigma       = 5.67e-8 // Stefan-Boltzmann (W/m^2/K^4)
	defaultG           = 9.81
	defaultCp          = 1004.0
	defaultKH2O        = 0.1   // effective mass absorption for water vapor
	defaultKCO2        = 0.002 // CO2 band absorption at 400 ppm
	defaultDiffusivity = 1.66  // two-stream diffusivity factor
	defaultS0          = 1361.0
)

// Model holds the radiative parameters for one run.
type Model struct {
	Sigma       float64
	G           float64
	Cp          float64
	KH2O        float64
	KCO2        float64
	CO2ppm      float64
	Diffusivity float64
	Albedo      float64 // surface albedo
	S0          float64 // solar constant (W/m^2)
}

// NewModel returns a model with standard-atmosphere parameters.
func NewModel() *Model {
	return &Model{
		Sigma:       defaultSigma,
		G:           defaultG,
		Cp:          defaultCp,
		KH2O:        defaultKH2O,
		KCO2:        defaultKCO2,
		CO2ppm:      420,
		Diffusivity: defaultDiffusivity,
		Albedo:      0.3,
		S0:          defaultS0,
	}
}

// Fluxes holds per-level radiative fluxes (W/m^2, level 0 = surface) and the
// per-layer heating rates (K/s, layer k sits between levels k and k+1).
type Fluxes struct {
	Up        []float64 // longwave upwelling, non-negative
	Down      []float64 // longwave downwelling, non-negative
	Shortwave []float64 // direct solar beam, downward positive, non-negative
	Heating   []float64 // layer heating rates
}

// OLR returns the outgoing longwave radiation at the top of the column.
func (f *Fluxes) OLR() float64 {
	if len(f.Up) == 0 {
		return 0
	}
	return f.Up[len(f.Up)-1]
}

// OpticalDepth returns the longwave optical depth of each layer:
//
//	dtau = (k_H2O*q + k_CO2*(CO2/400)) * dp/g
//
// with dp the layer mass in Pa. Humidity is averaged across the layer.
func (m *Model) OpticalDepth(col grid.Column) []float64 {
	n := col.Levels()
	dtau := make([]float64, n-1)
	kCO2 := m.KCO2 * (m.CO2ppm / 400.0)
	for k := 0; k < n-1; k++ {
		dp := (col.Pressure[k] - col.Pressure[k+1]) * 100 // hPa -> Pa
		qMid := 0.5 * (col.Humidity[k] + col.Humidity[k+1])
		dtau[k] = (m.KH2O*qMid + kCO2) * dp / m.G
	}
	return dtau
}

// Longwave integrates the two-stream Schwarzschild equation. Downwelling
// starts from zero at the top of the column; upwelling starts from blackbody
// surface emission. Each layer attenuates with exp(-1.66*dtau) and emits its
// Planck source into both streams.
func (m *Model) Longwave(col grid.Column) (up, down []float64) {
	n := col.Levels()
	dtau := m.OpticalDepth(col)

	trans := make([]float64, n-1)
	source := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		trans[k] = math.Exp(-m.Diffusivity * dtau[k])
		tMid := 0.5 * (col.Temperature[k] + col.Temperature[k+1])
		source[k] = m.Sigma * tMid * tMid * tMid * tMid
	}

	up = make([]float64, n)
	down = make([]float64, n)

	down[n-1] = 0
	for k := n - 2; k >= 0; k-- {
		down[k] = down[k+1]*trans[k] + source[k]*(1-trans[k])
	}

	tSfc := col.Temperature[0]
	up[0] = m.Sigma * tSfc * tSfc * tSfc * tSfc
	for k := 0; k < n-1; k++ {
		up[k+1] = up[k]*trans[k] + source[k]*(1-trans[k])
	}
	return up, down
}

// Shortwave returns the direct solar beam at each level for the given zenith
// angle (degrees). The beam enters at the top as S0*cos(zenith) and follows
// Beer-Lambert attenuation along the slant path. Night (zenith >= 90) gives
// an all-zero profile.
func (m *Model) Shortwave(col grid.Column, zenithDeg float64) []float64 {
	n := col.Levels()
	sw := make([]float64, n)
	mu := math.Cos(zenithDeg * math.Pi / 180)
	if zenithDeg >= 90 || mu <= 0 {
		return sw
	}

	dtau := m.OpticalDepth(col)
	sw[n-1] = m.S0 * mu
	for k := n - 2; k >= 0; k-- {
		sw[k] = sw[k+1] * math.Exp(-dtau[k]/mu)
	}
	return sw
}

// Integrate computes the full flux profile and per-layer heating rates
//
//	dT/dt = -(1/(rho*cp)) dF_net/dz = (g/cp) dF_net/dp
//
// with F_net = up - down - (1-albedo)*shortwave (upward positive; the
// surface-reflected beam escapes unabsorbed). The column must have at least
// two levels with strictly decreasing pressure.
func (m *Model) Integrate(col grid.Column, zenithDeg float64) (*Fluxes, error) {
	n := col.Levels()
	if n < 2 {
		return nil, fmt.Errorf("radiation: column needs at least 2 levels, got %d", n)
	}
	for k := 1; k < n; k++ {
		if col.Pressure[k] >= col.Pressure[k-1] {
			return nil, fmt.Errorf("radiation: pressure not decreasing at level %d", k)
		}
	}

	up, down := m.Longwave(col)
	sw := m.Shortwave(col, zenithDeg)

	heating := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		netLo := up[k] - down[k] - (1-m.Albedo)*sw[k]
		netHi := up[k+1] - down[k+1] - (1-m.Albedo)*sw[k+1]
		dp := (col.Pressure[k+1] - col.Pressure[k]) * 100 // negative upward
		heating[k] = (m.G / m.Cp) * (netHi - netLo) / dp
	}

	return &Fluxes{Up: up, Down: down, Shortwave: sw, Heating: heating}, nil
}
