// Package rv turns true anomalies into line-of-sight velocities and carries
// the long-term drift models superposed on the Keplerian signal.
//
// Velocities are in m/s, times in MJD days, angles in radians.
package rv

import "math"

// Velocity returns K·(cos(nu+omega) + ecc·cos(omega)).
func Velocity(nu, K, ecc, omega float64) float64 {
	return K * (math.Cos(nu+omega) + ecc*math.Cos(omega))
}

// Velocities evaluates Velocity for every true anomaly in nu.
func Velocities(nu []float64, K, ecc, omega float64) []float64 {
	v := make([]float64, len(nu))
	offset := ecc * math.Cos(omega)
	for i, n := range nu {
		v[i] = K * (math.Cos(n+omega) + offset)
	}
	return v
}
