package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/nashmit/TwoBody-1/internal/analysis"
	"github.com/nashmit/TwoBody-1/internal/config"
	"github.com/nashmit/TwoBody-1/internal/export"
	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/plot"
	"github.com/nashmit/TwoBody-1/internal/storage"
	"github.com/nashmit/TwoBody-1/internal/timeconv"
	"github.com/nashmit/TwoBody-1/internal/units"
	"github.com/nashmit/TwoBody-1/internal/viz"
)

// setup loads the config, builds the orbit and resolves the epochs.
func setup(cmd *cobra.Command) (*config.Config, *orbit.Orbit, []float64, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	o, err := buildOrbit(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ts, err := epochs(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, o, ts, nil
}

func epochs(cfg *config.Config) ([]float64, error) {
	if times == "" {
		return cfg.Times()
	}
	name := format
	if name == "" {
		name = cfg.Sampling.Format
	}
	f, err := timeconv.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return timeconv.ToRawTime(strings.Split(times, ","), f)
}

func curveFor(cmd *cobra.Command) (*export.Curve, error) {
	cfg, o, ts, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	u, err := cfg.VelocityUnit()
	if err != nil {
		return nil, err
	}
	c, err := export.Build(o, ts, u)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return c, nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	c, err := curveFor(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME_MJD\tRV_%s\n", strings.ToUpper(c.Unit))
	for i := range c.Times {
		fmt.Fprintf(w, "%.6f\t%.6f\n", c.Times[i], c.RV[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(c)
		if err != nil {
			return fmt.Errorf("save curve: %w", err)
		}
		logger.Info("curve saved", "run", id, "samples", len(c.Times))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSAMPLES\tSTART\tEND\tUNIT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.4f\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Start,
			run.End,
			run.Unit,
		)
	}
	return w.Flush()
}

func plotCurve(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		c, err := storage.New(dataDir).LoadCurve(args[0])
		if err != nil {
			return err
		}
		if len(c.RV) == 0 {
			return errors.New("no data to plot")
		}
		fmt.Fprintf(out, "run: %s\nkind: %s\nsamples: %d\n\n", args[0], c.Kind, len(c.RV))
		fmt.Fprintln(out, asciigraph.Plot(c.RV,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("RV [%s]", c.Unit)),
		))
		return nil
	}

	cfg, o, ts, err := setup(cmd)
	if err != nil {
		return err
	}
	style, err := styleFor(cfg)
	if err != nil {
		return err
	}

	surface := plot.NewASCIISurface(80, 12)
	if phased {
		style.Label = "phase-folded"
		err = plot.DrawPhased(surface, o, ts, ts[0], style)
	} else {
		err = plot.Draw(surface, o, ts, style)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, surface.Render())
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, o, ts, err := setup(cmd)
	if err != nil {
		return err
	}
	style, err := styleFor(cfg)
	if err != nil {
		return err
	}

	surface := plot.NewSVGSurface(svgWidth, svgHeight)
	if phased {
		err = plot.DrawPhased(surface, o, ts, ts[0], style)
	} else {
		err = plot.Draw(surface, o, ts, style)
	}
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if _, err := surface.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("svg written", "path", args[0], "samples", len(ts))
	return nil
}

func styleFor(cfg *config.Config) (plot.Style, error) {
	u, err := cfg.VelocityUnit()
	if err != nil {
		return plot.Style{}, err
	}
	style := plot.DefaultStyle()
	style.Unit = u
	return style, nil
}

func exportedCurve(cmd *cobra.Command) (*export.Curve, error) {
	if runID != "" {
		return storage.New(dataDir).LoadCurve(runID)
	}
	return curveFor(cmd)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	c, err := exportedCurve(cmd)
	if err != nil {
		return err
	}
	if err := export.ExportCSV(args[0], c); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	logger.Info("exported", "path", args[0], "samples", len(c.Times))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	c, err := exportedCurve(cmd)
	if err != nil {
		return err
	}
	if err := export.ExportJSON(args[0], c); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	logger.Info("exported", "path", args[0], "samples", len(c.Times))
	return nil
}

func pericenterTime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	o, err := buildOrbit(cfg)
	if err != nil {
		return err
	}

	ref := refTime
	if !cmd.Flags().Changed("ref") {
		ts, err := cfg.Times()
		if err != nil {
			return err
		}
		ref = ts[0]
	}

	t0 := o.PericenterTime(ref)
	fmt.Fprintf(cmd.OutOrStdout(), "t0: %.6f MJD (%s)\n", t0, timeconv.MJDToTime(t0).Format("2006-01-02T15:04:05Z"))
	return nil
}

func derivedQuantities(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	o, err := buildOrbit(cfg)
	if err != nil {
		return err
	}

	a, f := o.A1Sini(), o.MassFunction()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tSI\tASTRO")
	fmt.Fprintf(w, "a1 sin i\t%.6e m\t%.6e AU\n", a, units.MetresToAU(a))
	fmt.Fprintf(w, "f(M)\t%.6e kg\t%.6e Msun\n", f, units.KgToSolarMass(f))
	return w.Flush()
}

func analyzeCurve(cmd *cobra.Command, args []string) error {
	var (
		c   *export.Curve
		err error
	)
	if len(args) == 1 {
		c, err = storage.New(dataDir).LoadCurve(args[0])
	} else {
		c, err = curveFor(cmd)
	}
	if err != nil {
		return err
	}
	expected, _ := c.Params["P"].(float64)

	out := cmd.OutOrStdout()
	stats := analysis.Summarize(c.RV)
	fmt.Fprintf(out, "samples: %d\n", stats.Samples)
	fmt.Fprintf(out, "min: %.6f %s\nmax: %.6f %s\n", stats.Min, c.Unit, stats.Max, c.Unit)
	fmt.Fprintf(out, "mean: %.6f %s\nrms: %.6f %s\n", stats.Mean, c.Unit, stats.RMS, c.Unit)
	fmt.Fprintf(out, "peak-to-peak: %.6f %s\n\n", stats.PeakToPeak(), c.Unit)

	period, err := analysis.DominantPeriod(c.Times, c.RV)
	if err != nil {
		logger.Warn("no periodogram", "err", err)
		return nil
	}

	ps := analysis.PowerSpectrum(c.RV)
	if n := len(ps) / 4; n > 1 {
		ps = ps[:n]
	}
	fmt.Fprintln(out, asciigraph.Plot(ps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("amplitude spectrum"),
	))
	fmt.Fprintf(out, "\ndominant period: %.6f d\n", period)
	if expected > 0 {
		rel := math.Abs(period-expected) / expected
		fmt.Fprintf(out, "orbital period:  %.6f d (%.2f%% off)\n", expected, 100*rel)
		if rel > 0.05 {
			logger.Warn("dominant period differs from P; sampling may be too coarse or too short",
				"dominant", period, "P", expected)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	theme, err := viz.GetTheme(themeName)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	o, err := buildOrbit(cfg)
	if err != nil {
		return err
	}
	ts, err := cfg.Times()
	if err != nil {
		return err
	}

	title := preset
	if title == "" {
		title = string(o.Elements().Kind) + " orbit"
	}
	m, err := viz.NewModel(o, ts[0], title)
	if err != nil {
		return err
	}
	return viz.Run(m.WithTheme(theme))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tP\tK\tECC\tUNIT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		el, err := cfg.Elements()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f d\t%.4g m/s\t%.4f\t%s\n",
			name, el.Kind, el.P, el.K, el.Ecc, cfg.Sampling.Unit)
	}
	return w.Flush()
}
