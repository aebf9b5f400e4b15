package plot_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/plot"
	"github.com/nashmit/TwoBody-1/internal/units"
)

type recordingSurface struct {
	x, y  [][]float64
	style []plot.Style
}

func (r *recordingSurface) Line(x, y []float64, style plot.Style) error {
	r.x = append(r.x, x)
	r.y = append(r.y, y)
	r.style = append(r.style, style)
	return nil
}

var _ = Describe("Plot", func() {
	var o *orbit.Orbit

	BeforeEach(func() {
		var err error
		o, err = orbit.FromParams("kepler", map[string]any{
			"P": 10.0, "K": "5 km/s", "ecc": 0, "omega": 0, "phi0": 0,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Draw", func() {
		It("hands the curve to the surface in km/s by default", func() {
			rec := &recordingSurface{}
			Expect(plot.Draw(rec, o, []float64{0, 5}, plot.Style{})).To(Succeed())

			Expect(rec.x).To(HaveLen(1))
			Expect(rec.y[0][0]).To(BeNumerically("~", 5, 1e-9))
			Expect(rec.y[0][1]).To(BeNumerically("~", -5, 1e-9))

			st := rec.style[0]
			Expect(st.LineStyle).To(Equal("-"))
			Expect(st.Alpha).To(Equal(0.5))
			Expect(st.Marker).To(BeEmpty())
			Expect(st.Unit).To(Equal(units.KilometrePerSecond))
		})

		It("honours an explicit unit", func() {
			rec := &recordingSurface{}
			style := plot.DefaultStyle()
			style.Unit = units.MetrePerSecond
			Expect(plot.Draw(rec, o, []float64{0}, style)).To(Succeed())
			Expect(rec.y[0][0]).To(BeNumerically("~", 5000, 1e-6))
		})
	})

	Describe("Style", func() {
		It("keeps an explicit zero opacity", func() {
			rec := &recordingSurface{}
			Expect(plot.Draw(rec, o, []float64{0}, plot.DefaultStyle().WithAlpha(0))).To(Succeed())
			Expect(rec.style[0].Alpha).To(BeZero())
		})

		It("clamps opacity into [0, 1]", func() {
			Expect(plot.Style{}.WithAlpha(1.7).Alpha).To(Equal(1.0))
			Expect(plot.Style{}.WithAlpha(-0.2).Alpha).To(BeZero())
		})

		It("renders a transparent line in SVG", func() {
			svg := plot.NewSVGSurface(200, 100)
			Expect(plot.Draw(svg, o, []float64{0, 2.5, 5}, plot.Style{}.WithAlpha(0))).To(Succeed())
			var buf bytes.Buffer
			_, err := svg.WriteTo(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring(`stroke-opacity="0.00"`))
		})
	})

	Describe("DrawPhased", func() {
		It("sorts points by phase", func() {
			rec := &recordingSurface{}
			ts := []float64{7.5, 2.5, 15, 0}
			Expect(plot.DrawPhased(rec, o, ts, 0, plot.DefaultStyle())).To(Succeed())

			x := rec.x[0]
			Expect(x).To(HaveLen(4))
			for i := 1; i < len(x); i++ {
				Expect(x[i]).To(BeNumerically(">=", x[i-1]))
			}
			Expect(x[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(rec.y[0][0]).To(BeNumerically("~", 5, 1e-9))
		})
	})

	Describe("SVGSurface", func() {
		It("renders one path per line", func() {
			svg := plot.NewSVGSurface(400, 200)
			Expect(plot.Draw(svg, o, []float64{0, 1, 2, 3, 4, 5}, plot.DefaultStyle())).To(Succeed())

			dashed := plot.DefaultStyle()
			dashed.LineStyle = "--"
			dashed.Marker = "o"
			Expect(svg.Line([]float64{0, 5}, []float64{0, 0}, dashed)).To(Succeed())

			out := svg.Render()
			Expect(out).To(HavePrefix("<?xml"))
			Expect(out).To(HaveSuffix("</svg>"))
			Expect(bytes.Count([]byte(out), []byte("<path"))).To(Equal(2))
			Expect(out).To(ContainSubstring(`stroke-opacity="0.50"`))
			Expect(out).To(ContainSubstring(`stroke-dasharray="6,4"`))
			Expect(out).To(ContainSubstring("<circle"))
		})

		It("writes the document", func() {
			svg := plot.NewSVGSurface(100, 100)
			Expect(svg.Line([]float64{0, 1}, []float64{1, 2}, plot.Style{})).To(Succeed())

			var buf bytes.Buffer
			n, err := svg.WriteTo(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeNumerically("==", buf.Len()))
		})

		It("is empty until something is drawn", func() {
			Expect(plot.NewSVGSurface(10, 10).Render()).To(BeEmpty())
		})

		It("rejects mismatched input", func() {
			svg := plot.NewSVGSurface(10, 10)
			Expect(svg.Line([]float64{0, 1}, []float64{1}, plot.Style{})).To(MatchError(plot.ErrLengthMismatch))
			Expect(svg.Line(nil, nil, plot.Style{})).To(MatchError(plot.ErrNoPoints))
		})
	})

	Describe("ASCIISurface", func() {
		It("renders a chart captioned with the unit", func() {
			ascii := plot.NewASCIISurface(60, 10)
			ts := make([]float64, 40)
			for i := range ts {
				ts[i] = float64(i) * 0.25
			}
			Expect(plot.Draw(ascii, o, ts, plot.DefaultStyle())).To(Succeed())

			out := ascii.Render()
			Expect(out).To(ContainSubstring("km/s"))
			Expect(out).To(ContainSubstring("5.00"))
		})

		It("is empty until something is drawn", func() {
			Expect(plot.NewASCIISurface(10, 5).Render()).To(BeEmpty())
		})
	})
})
