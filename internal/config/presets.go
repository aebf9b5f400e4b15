package config

import "sort"

var Presets = map[string]*Config{
	"hot_jupiter": {
		Orbit: OrbitConfig{
			Kind:   "kepler",
			Params: map[string]any{"P": "4.2308 d", "K": "55.9 m/s", "ecc": 0.0, "omega": 0.0, "phi0": 0.0},
		},
		Sampling: SamplingConfig{Start: "60000", End: "60030", Samples: 600, Format: "mjd", Unit: "m/s"},
	},
	"eccentric_binary": {
		Orbit: OrbitConfig{
			Kind:   "kepler",
			Params: map[string]any{"P": "58.2 d", "K": "24.5 km/s", "ecc": 0.65, "omega": "120 deg", "phi0": "45 deg"},
		},
		Sampling: SamplingConfig{Start: "60000", End: "60300", Samples: 2000, Format: "mjd", Unit: "km/s"},
	},
	"earth_twin": {
		Orbit: OrbitConfig{
			Kind:   "kepler",
			Params: map[string]any{"P": "1 yr", "K": "0.09 m/s", "ecc": 0.0167, "omega": "102.9 deg", "phi0": 0.0},
		},
		Sampling: SamplingConfig{Start: "60000", End: "61000", Samples: 1000, Format: "mjd", Unit: "cm/s"},
	},
	"circular_sb1": {
		Orbit: OrbitConfig{
			Kind:   "circular",
			Params: map[string]any{"P": "12.4 d", "K": "35 km/s", "phi0": "90 deg"},
		},
		Sampling: SamplingConfig{Start: "60000", End: "60050", Samples: 500, Format: "mjd", Unit: "km/s"},
	},
	"drifting_companion": {
		Orbit: OrbitConfig{
			Kind:   "kepler",
			Params: map[string]any{"P": "800 d", "K": "40 m/s", "ecc": 0.2, "omega": "30 deg", "phi0": 0.0},
			Trend:  &TrendConfig{Kind: "polynomial", Coeffs: []float64{0, 0.01}, TRef: 60000},
		},
		Sampling: SamplingConfig{Start: "60000", End: "63000", Samples: 1500, Format: "mjd", Unit: "m/s"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Orbit.Params = make(map[string]any, len(p.Orbit.Params))
	for k, v := range p.Orbit.Params {
		cfg.Orbit.Params[k] = v
	}
	if p.Orbit.Trend != nil {
		t := *p.Orbit.Trend
		t.Coeffs = append([]float64(nil), t.Coeffs...)
		cfg.Orbit.Trend = &t
	}
	return &cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
