package radiation

import "math"

// SolarSchedule converts simulation time into a solar zenith angle for a
// fixed latitude and solar declination. Simulation time zero corresponds to
// StartHour local solar time.
type SolarSchedule struct {
	Latitude    float64 // degrees, positive north
	Declination float64 // degrees
	StartHour   float64 // local solar hour at t=0 (0..24)
}

const secondsPerDay = 86400.0

// Zenith returns the solar zenith angle in degrees at simulation time t
// (seconds). Values of 90 or more mean the sun is below the horizon.
func (s SolarSchedule) Zenith(t float64) float64 {
	hour := math.Mod(s.StartHour+t/3600.0, 24)
	if hour < 0 {
		hour += 24
	}
	// Hour angle: zero at solar noon, 15 degrees per hour.
	ha := (hour - 12) * 15 * math.Pi / 180

	lat := s.Latitude * math.Pi / 180
	dec := s.Declination * math.Pi / 180

	cosZ := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	if cosZ > 1 {
		cosZ = 1
	} else if cosZ < -1 {
		cosZ = -1
	}
	return math.Acos(cosZ) * 180 / math.Pi
}
