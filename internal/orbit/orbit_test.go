package orbit_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nashmit/TwoBody-1/internal/elements"
	"github.com/nashmit/TwoBody-1/internal/kepler"
	"github.com/nashmit/TwoBody-1/internal/logging"
	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/rv"
	"github.com/nashmit/TwoBody-1/internal/timeconv"
	"github.com/nashmit/TwoBody-1/internal/units"
)

type countingObserver struct {
	mu      sync.Mutex
	calls   int
	samples int
	stats   kepler.Stats
}

func (c *countingObserver) ObserveSolve(n int, stats kepler.Stats, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.samples += n
	c.stats = stats
}

func mustOrbit(params map[string]any, opts ...orbit.Option) *orbit.Orbit {
	o, err := orbit.FromParams("kepler", params, opts...)
	Expect(err).NotTo(HaveOccurred())
	return o
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + (end-start)*float64(i)/float64(n-1)
	}
	return out
}

var _ = Describe("Orbit", func() {
	Describe("circular reference curve", func() {
		var o *orbit.Orbit

		BeforeEach(func() {
			o = mustOrbit(map[string]any{
				"P": "10 d", "K": "5 km/s", "ecc": 0, "omega": 0, "phi0": 0,
			})
		})

		It("samples a cosine at quarter periods", func() {
			curve, err := o.Curve([]float64{0, 2.5, 5, 7.5})
			Expect(err).NotTo(HaveOccurred())
			Expect(curve.Unit).To(Equal(units.KilometrePerSecond))

			want := []float64{5, 0, -5, 0}
			for i := range want {
				Expect(curve.Values[i]).To(BeNumerically("~", want[i], 1e-9))
			}
		})

		It("returns raw m/s from Evaluate", func() {
			v, err := o.Evaluate([]float64{0, 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(v[0]).To(BeNumerically("~", 5000, 1e-6))
			Expect(v[1]).To(BeNumerically("~", -5000, 1e-6))
		})

		It("tags curves in any velocity unit", func() {
			curve, err := o.CurveIn([]float64{0}, units.MetrePerSecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(curve.Values[0]).To(BeNumerically("~", 5000, 1e-6))
		})

		It("handles an empty time array", func() {
			v, err := o.Evaluate(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeEmpty())
		})
	})

	Describe("circular orbits", func() {
		It("reduce to K·cos(2πt/P − phi0 + omega)", func() {
			K, P, phi0, omega := 37.0, 4.2, 1.1, 0.7
			el, err := elements.NewKepler(P, K, 0, omega, phi0)
			Expect(err).NotTo(HaveOccurred())
			o, err := orbit.New(el)
			Expect(err).NotTo(HaveOccurred())

			ts := linspace(-3, 11, 57)
			v, err := o.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			for i, t := range ts {
				want := K * math.Cos(2*math.Pi*t/P-phi0+omega)
				Expect(v[i]).To(BeNumerically("~", want, 1e-8))
			}
		})
	})

	Describe("eccentric orbits", func() {
		params := map[string]any{"P": 12.3, "K": 80.0, "ecc": 0.6, "omega": 2.1, "phi0": 0.9}

		It("is periodic in P without a trend", func() {
			o := mustOrbit(params)
			ts := linspace(0, 30, 101)
			shifted := make([]float64, len(ts))
			for i, t := range ts {
				shifted[i] = t + 12.3
			}

			a, err := o.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			b, err := o.Evaluate(shifted)
			Expect(err).NotTo(HaveOccurred())
			for i := range a {
				Expect(b[i]).To(BeNumerically("~", a[i], 1e-7))
			}
		})

		It("reaches K·(1+e)·cos(omega) at the pericenter passage", func() {
			o := mustOrbit(params)
			t0 := o.PericenterTime(57000)
			v, err := o.Evaluate([]float64{t0})
			Expect(err).NotTo(HaveOccurred())
			Expect(v[0]).To(BeNumerically("~", 80*1.6*math.Cos(2.1), 1e-6))
		})

		It("agrees between serial and parallel evaluation", func() {
			ts := linspace(55000, 56000, 5000)
			serial := mustOrbit(params, orbit.WithParallelThreshold(0))
			parallel := mustOrbit(params, orbit.WithParallelThreshold(64))

			a, err := serial.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			b, err := parallel.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(a))
		})

		It("is safe for concurrent use", func() {
			o := mustOrbit(params, orbit.WithParallelThreshold(32))
			ts := linspace(0, 100, 400)
			want, err := o.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())

			var wg sync.WaitGroup
			results := make([][]float64, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					defer GinkgoRecover()
					v, err := o.Evaluate(ts)
					Expect(err).NotTo(HaveOccurred())
					results[i] = v
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				Expect(r).To(Equal(want))
			}
		})
	})

	Describe("trend", func() {
		It("adds the drift to the Keplerian signal", func() {
			base, err := elements.NewKepler(5, 100, 0.2, 0.3, 0.4)
			Expect(err).NotTo(HaveOccurred())
			drift := rv.NewPolynomial(100, 2, 0.5)

			plain, err := orbit.New(base)
			Expect(err).NotTo(HaveOccurred())
			drifting, err := orbit.New(base.WithTrend(drift))
			Expect(err).NotTo(HaveOccurred())

			ts := []float64{90, 100, 113.7}
			a, err := plain.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			b, err := drifting.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			for i, t := range ts {
				Expect(b[i] - a[i]).To(BeNumerically("~", drift.Velocity(t), 1e-9))
			}
		})
	})

	Describe("convergence policy", func() {
		params := map[string]any{"P": 10.0, "K": 50.0, "ecc": 0.5, "omega": 0.0, "phi0": 0.0}
		ts := []float64{1, 2, 3, 6, 7}

		It("logs a warning and returns the best estimate by default", func() {
			var buf bytes.Buffer
			obs := &countingObserver{}
			o := mustOrbit(params,
				orbit.WithMaxIter(1),
				orbit.WithLogger(logging.NewWriter(&buf, slog.LevelWarn, false)),
				orbit.WithObserver(obs),
			)

			v, err := o.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(HaveLen(len(ts)))
			Expect(buf.String()).To(ContainSubstring("did not converge"))
			Expect(obs.calls).To(Equal(1))
			Expect(obs.stats.Unconverged).To(Equal(len(ts)))
		})

		It("fails in strict mode", func() {
			o := mustOrbit(params, orbit.WithMaxIter(1), orbit.WithStrictConvergence())
			_, err := o.Evaluate(ts)
			Expect(err).To(MatchError(kepler.ErrNotConverged))

			var ce *kepler.ConvergenceError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Total).To(Equal(len(ts)))
		})

		It("converges quietly with the default cap", func() {
			obs := &countingObserver{}
			o := mustOrbit(params, orbit.WithObserver(obs))
			_, err := o.Evaluate(ts)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.samples).To(Equal(len(ts)))
			Expect(obs.stats.Unconverged).To(BeZero())
		})
	})

	Describe("time input", func() {
		o := func() *orbit.Orbit {
			return mustOrbit(map[string]any{"P": 10.0, "K": 5000.0, "ecc": 0, "omega": 0, "phi0": 0})
		}

		It("accepts Julian dates", func() {
			v, err := o().EvaluateTimes([]string{"2400000.5", "2400003.0"}, timeconv.JD)
			Expect(err).NotTo(HaveOccurred())
			Expect(v[0]).To(BeNumerically("~", 5000, 1e-6))
			Expect(v[1]).To(BeNumerically("~", 0, 1e-6))
		})

		It("reports unreadable times as domain errors", func() {
			_, err := o().EvaluateTimes([]string{"0", "noon"}, timeconv.MJD)
			Expect(err).To(MatchError(timeconv.ErrDomain))
		})

		It("reports non-finite epochs as domain errors, not convergence failures", func() {
			strict := mustOrbit(map[string]any{"P": 10.0, "K": 5000.0, "ecc": 0.3, "omega": 0, "phi0": 0},
				orbit.WithStrictConvergence())
			_, err := strict.EvaluateTimes([]string{"60000", "NaN"}, timeconv.MJD)
			Expect(err).To(MatchError(timeconv.ErrDomain))
			Expect(errors.Is(err, kepler.ErrNotConverged)).To(BeFalse())
		})
	})

	Describe("construction", func() {
		It("rejects unbound eccentricities", func() {
			_, err := orbit.FromParams("kepler", map[string]any{
				"P": 10.0, "K": 1.0, "ecc": 1.2, "omega": 0.0, "phi0": 0.0,
			})
			Expect(err).To(MatchError(elements.ErrConfiguration))
		})

		It("rejects negative periods", func() {
			_, err := orbit.FromParams("kepler", map[string]any{
				"P": -5.0, "K": 1.0, "ecc": 0.1, "omega": 0.0, "phi0": 0.0,
			})
			Expect(err).To(MatchError(elements.ErrConfiguration))
		})

		It("validates hand-built elements", func() {
			_, err := orbit.New(elements.Elements{P: 1, K: 1, Ecc: 0.2})
			Expect(err).To(MatchError(elements.ErrConfiguration))
		})

		It("fills in kind and trend defaults", func() {
			o, err := orbit.New(elements.Elements{P: 1, K: 1, AnomalyTol: 1e-10})
			Expect(err).NotTo(HaveOccurred())
			Expect(o.Elements().Kind).To(Equal(elements.KindKepler))
			Expect(o.Elements().Trend).To(Equal(rv.NoDrift{}))
		})
	})

	Describe("derived quantities", func() {
		It("match the closed-form expressions", func() {
			o := mustOrbit(map[string]any{"P": 100.0, "K": 10.0, "ecc": 0.5, "omega": math.Pi / 2, "phi0": 0.0})
			Ps := 100 * 86400.0

			wantA := 10 * Ps * math.Sqrt(0.75) / (2 * math.Pi)
			Expect(o.A1Sini()).To(BeNumerically("~", wantA, 1e-6*wantA))

			wantF := Ps * 1000 * math.Pow(0.75, 1.5) / (2 * math.Pi * 6.67430e-11)
			Expect(o.MassFunction()).To(BeNumerically("~", wantF, 1e-9*wantF))
		})
	})

	Describe("epoch folding", func() {
		It("places t0 within half a period of the reference", func() {
			o := mustOrbit(map[string]any{"P": 7.0, "K": 1.0, "ecc": 0.1, "omega": 0.0, "phi0": 2.0})
			for _, ref := range []float64{0, 3.3, 58000.7} {
				t0 := o.PericenterTime(ref)
				Expect(math.Abs(t0 - ref)).To(BeNumerically("<=", 3.5+1e-9))
			}
		})

		It("phases times from the nearest pericenter", func() {
			o := mustOrbit(map[string]any{"P": 4.0, "K": 1.0, "ecc": 0.0, "omega": 0.0, "phi0": 0.0})
			ph := o.Phase([]float64{100, 101, 103}, 100)
			Expect(ph[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(ph[1]).To(BeNumerically("~", 0.25, 1e-12))
			Expect(ph[2]).To(BeNumerically("~", 0.75, 1e-12))
		})
	})
})
