package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nashmit/TwoBody-1/internal/config"
	"github.com/nashmit/TwoBody-1/internal/logging"
	"github.com/nashmit/TwoBody-1/internal/metrics"
	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	unitName   string
	logLevel   string
	logJSON    bool
	dumpStats  bool
	strict     bool
	// sampling overrides
	start   float64
	end     float64
	samples int
	times   string
	format  string
	// curve
	save bool
	// plot and svg
	phased    bool
	svgWidth  int
	svgHeight int
	// export
	runID string
	// t0
	refTime float64
	// live
	themeName string

	logger   *slog.Logger
	recorder *metrics.Recorder
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "twobody",
		Short:        "radial-velocity curves of two-body orbits",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewWriter(cmd.ErrOrStderr(), logging.ParseLevel(logLevel), logJSON)
			recorder = metrics.NewRecorder()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !dumpStats {
				return nil
			}
			return recorder.WriteText(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".twobody", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use a named preset (see 'presets')")
	pf.StringVar(&unitName, "unit", "", "velocity unit: cm/s, m/s or km/s")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&dumpStats, "metrics", false, "print evaluation metrics to stderr on exit")
	pf.BoolVar(&strict, "strict", false, "fail when a Kepler solve does not converge")

	samplingFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&start, "start", 0, "first epoch (MJD)")
		cmd.Flags().Float64Var(&end, "end", 0, "last epoch (MJD)")
		cmd.Flags().IntVar(&samples, "samples", 0, "number of epochs")
		cmd.Flags().StringVar(&times, "times", "", "comma-separated epochs instead of a grid")
		cmd.Flags().StringVar(&format, "format", "", "format of --times: mjd, jd, unix or iso")
	}

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "evaluate the RV curve",
		Args:  cobra.NoArgs,
		RunE:  runCurve,
	}
	samplingFlags(curveCmd)
	curveCmd.Flags().BoolVar(&save, "save", false, "store the curve under --data")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored curves",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored curve, or the configured orbit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotCurve,
	}
	samplingFlags(plotCmd)
	plotCmd.Flags().BoolVar(&phased, "phase", false, "plot against orbital phase")

	svgCmd := &cobra.Command{
		Use:   "svg [output]",
		Short: "render the configured orbit as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	samplingFlags(svgCmd)
	svgCmd.Flags().BoolVar(&phased, "phase", false, "plot against orbital phase")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "width in pixels")
	svgCmd.Flags().IntVar(&svgHeight, "height", 400, "height in pixels")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [output]",
		Short: "export the curve to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	samplingFlags(exportCSVCmd)
	exportCSVCmd.Flags().StringVar(&runID, "run", "", "export a stored curve instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [output]",
		Short: "export the curve to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	samplingFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVar(&runID, "run", "", "export a stored curve instead")

	t0Cmd := &cobra.Command{
		Use:   "t0",
		Short: "pericenter passage nearest a reference epoch",
		Args:  cobra.NoArgs,
		RunE:  pericenterTime,
	}
	t0Cmd.Flags().Float64Var(&refTime, "ref", 0, "reference epoch (MJD), defaults to the sampling start")

	derivedCmd := &cobra.Command{
		Use:   "derived",
		Short: "projected semi-major axis and mass function",
		Args:  cobra.NoArgs,
		RunE:  derivedQuantities,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "periodogram and statistics of a curve",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeCurve,
	}
	samplingFlags(analyzeCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sweep the orbit in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name,
		fmt.Sprintf("color theme: %s", strings.Join(viz.ThemeNames(), ", ")))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(curveCmd, listCmd, plotCmd, svgCmd, exportCSVCmd, exportJSONCmd,
		t0Cmd, derivedCmd, analyzeCmd, liveCmd, presetsCmd)
	return rootCmd
}

// loadConfig resolves --preset, then --config, then the built-in default,
// and applies the command-line overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if unitName != "" {
		cfg.Sampling.Unit = unitName
	}
	if strict {
		cfg.Strict = true
	}
	if f := cmd.Flags().Lookup("samples"); f != nil && f.Changed {
		cfg.Sampling.Samples = samples
	}
	startSet := cmd.Flags().Changed("start")
	endSet := cmd.Flags().Changed("end")
	if startSet || endSet {
		ts, err := cfg.Times()
		if err != nil {
			return nil, err
		}
		lo, hi := ts[0], ts[len(ts)-1]
		if startSet {
			lo = start
		}
		if endSet {
			hi = end
		}
		cfg.SetSpan(lo, hi)
	}
	return cfg, nil
}

func buildOrbit(cfg *config.Config) (*orbit.Orbit, error) {
	o, err := cfg.BuildOrbit(orbit.WithLogger(logger), orbit.WithObserver(recorder))
	if err != nil {
		return nil, fmt.Errorf("build orbit: %w", err)
	}
	el := o.Elements()
	logger.Debug("orbit ready",
		"kind", el.Kind,
		"P", el.P,
		"K", el.K,
		"ecc", el.Ecc,
		"omega", el.Omega,
		"phi0", el.Phi0,
	)
	return o, nil
}
