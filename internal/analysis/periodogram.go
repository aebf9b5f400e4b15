package analysis

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTooFewSamples = errors.New("analysis: too few samples")
	ErrNonUniform    = errors.New("analysis: samples are not uniformly spaced")
)

// minSamples is the shortest series worth transforming.
const minSamples = 8

// padFactor oversamples the spectrum so the peak lands closer to the true
// frequency.
const padFactor = 4

// DominantPeriod returns the period, in the units of ts, of the strongest
// non-zero frequency in vs. The mean is removed first and the peak bin is
// refined by parabolic interpolation.
func DominantPeriod(ts, vs []float64) (float64, error) {
	if len(ts) != len(vs) {
		return 0, fmt.Errorf("analysis: %d times but %d values", len(ts), len(vs))
	}
	if len(ts) < minSamples {
		return 0, ErrTooFewSamples
	}
	dt, err := uniformStep(ts)
	if err != nil {
		return 0, err
	}

	mean := 0.0
	for _, v := range vs {
		mean += v
	}
	mean /= float64(len(vs))

	n := nextPow2(len(vs)) * padFactor
	centred := make([]float64, n)
	for i, v := range vs {
		centred[i] = v - mean
	}
	ps := PowerSpectrum(centred)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: flat series has no dominant period")
	}

	k := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			k += 0.5 * (a - c) / denom
		}
	}

	freq := k / (float64(n) * dt)
	return 1 / freq, nil
}

func uniformStep(ts []float64) (float64, error) {
	dt := (ts[len(ts)-1] - ts[0]) / float64(len(ts)-1)
	if !(dt > 0) {
		return 0, ErrNonUniform
	}
	for i := 1; i < len(ts); i++ {
		if math.Abs(ts[i]-ts[i-1]-dt) > 1e-6*dt {
			return 0, ErrNonUniform
		}
	}
	return dt, nil
}
