// Package thermo computes moist-thermodynamic quantities and the column
// instability diagnostics (CAPE, CIN, lifted index) from parcel theory.
package thermo

import "math"

// Gas and thermodynamic constants for dry air and water vapor.
const (
	Gravity  = 9.81    // m/s^2
	Cp       = 1005.0  // specific heat of dry air (J/kg/K)
	Rd       = 287.05  // gas constant, dry air (J/kg/K)
	Rv       = 461.5   // gas constant, water vapor (J/kg/K)
	Epsilon  = Rd / Rv // ~0.622
	P0       = 1000.0  // reference pressure (hPa)
	RdOverCp = Rd / Cp
)

// SaturationVaporPressure returns es in hPa for temperature in K
// (Tetens/Magnus form).
func SaturationVaporPressure(tK float64) float64 {
	tc := tK - 273.15
	return 6.112 * math.Exp(17.67*tc/(tc+243.5))
}

// SaturationMixingRatio returns ws (kg/kg) at pressure p (hPa).
func SaturationMixingRatio(pHPa, tK float64) float64 {
	es := SaturationVaporPressure(tK)
	if es >= pHPa {
		es = pHPa * 0.99
	}
	return Epsilon * es / (pHPa - es)
}

// LatentHeat returns the temperature-dependent latent heat of vaporization
// (J/kg).
func LatentHeat(tK float64) float64 {
	return 2.501e6 - 2370*(tK-273.15)
}

// PotentialTemperature returns theta = T*(P0/p)^(R/cp).
func PotentialTemperature(tK, pHPa float64) float64 {
	return tK * math.Pow(P0/pHPa, RdOverCp)
}

// DryLapseRate returns the dry adiabatic lapse rate g/cp (K/m).
func DryLapseRate() float64 { return Gravity / Cp }

// DewPoint inverts Tetens for the vapor pressure implied by specific
// humidity q at pressure p (hPa). Clamped to the air temperature when
// supersaturated.
func DewPoint(q, pHPa, tK float64) float64 {
	if q <= 0 {
		return 0
	}
	e := q * pHPa / (Epsilon + (1-Epsilon)*q)
	if e <= 0 {
		return 0
	}
	ln := math.Log(e / 6.112)
	td := 243.5*ln/(17.67-ln) + 273.15
	if td > tK {
		td = tK
	}
	return td
}

// MoistLapseDTdp returns the pseudo-adiabatic temperature change with
// pressure (K/hPa) for a saturated parcel.
func MoistLapseDTdp(pHPa, tK float64) float64 {
	ws := SaturationMixingRatio(pHPa, tK)
	l := LatentHeat(tK)
	num := 1 + l*ws/(Rd*tK)
	den := 1 + l*l*ws/(Cp*Rv*tK*tK)
	return (Rd * tK / (Cp * pHPa)) * (num / den)
}
