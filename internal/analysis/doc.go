// Package analysis inspects sampled RV curves.
//
//   - [PowerSpectrum]: amplitude spectrum of a series via radix-2 FFT
//   - [DominantPeriod]: strongest period in a uniformly sampled curve
//   - [Summarize]: extrema, mean and RMS of a curve
//
// DominantPeriod lets a caller check that an evaluated curve repeats on
// the orbital period it was built from:
//
//	p, err := analysis.DominantPeriod(ts, v)
//	if err == nil && math.Abs(p-P)/P > 0.02 {
//	    // sampling too coarse or too short
//	}
package analysis
