package elements

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/nashmit/TwoBody-1/internal/kepler"
	"github.com/nashmit/TwoBody-1/internal/rv"
	"github.com/nashmit/TwoBody-1/internal/units"
)

// Constructor builds one variant from named parameters.
type Constructor func(params map[string]any) (Elements, error)

var constructors = map[Kind]Constructor{
	KindKepler:   newKepler,
	KindCircular: newCircular,
}

// New dispatches on kind and builds validated elements from params.
//
// Numeric parameters are in internal units (days, m/s, radians). String
// parameters may carry a unit, e.g. "5 km/s", "10 d" or "90 deg".
// A "kind" key in params is ignored so that Params output can be fed back in.
func New(kind string, params map[string]any) (Elements, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(kind)))
	fn, ok := constructors[k]
	if !ok {
		return Elements{}, configErr(Kind(kind), "", "unknown elements variant (available: %s)", strings.Join(Kinds(), ", "))
	}
	return fn(params)
}

// Kinds lists the registered variants in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(constructors))
	for k := range constructors {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

type (
	days    float64
	mps     float64
	radians float64
)

type keplerParams struct {
	P          *days    `mapstructure:"P"`
	K          *mps     `mapstructure:"K"`
	Ecc        *float64 `mapstructure:"ecc"`
	Omega      *radians `mapstructure:"omega"`
	Phi0       *radians `mapstructure:"phi0"`
	AnomalyTol *float64 `mapstructure:"anomaly_tol"`
}

type circularParams struct {
	P          *days    `mapstructure:"P"`
	K          *mps     `mapstructure:"K"`
	Phi0       *radians `mapstructure:"phi0"`
	AnomalyTol *float64 `mapstructure:"anomaly_tol"`
}

type trendParams struct {
	Kind   string    `mapstructure:"kind"`
	Coeffs []float64 `mapstructure:"coeffs"`
	TRef   float64   `mapstructure:"t_ref"`
}

func newKepler(params map[string]any) (Elements, error) {
	var p keplerParams
	trend, err := decode(KindKepler, params, &p)
	if err != nil {
		return Elements{}, err
	}

	if err := required(KindKepler, []string{"P", "K", "ecc", "omega", "phi0"},
		p.P == nil, p.K == nil, p.Ecc == nil, p.Omega == nil, p.Phi0 == nil); err != nil {
		return Elements{}, err
	}

	e := Elements{
		Kind:       KindKepler,
		P:          float64(*p.P),
		K:          float64(*p.K),
		Ecc:        *p.Ecc,
		Omega:      float64(*p.Omega),
		Phi0:       float64(*p.Phi0),
		AnomalyTol: kepler.DefaultTolerance,
		Trend:      trend,
	}
	if p.AnomalyTol != nil {
		e.AnomalyTol = *p.AnomalyTol
	}
	return e, e.Validate()
}

func newCircular(params map[string]any) (Elements, error) {
	var p circularParams
	trend, err := decode(KindCircular, params, &p)
	if err != nil {
		return Elements{}, err
	}

	if err := required(KindCircular, []string{"P", "K", "phi0"},
		p.P == nil, p.K == nil, p.Phi0 == nil); err != nil {
		return Elements{}, err
	}

	e := Elements{
		Kind:       KindCircular,
		P:          float64(*p.P),
		K:          float64(*p.K),
		Phi0:       float64(*p.Phi0),
		AnomalyTol: kepler.DefaultTolerance,
		Trend:      trend,
	}
	if p.AnomalyTol != nil {
		e.AnomalyTol = *p.AnomalyTol
	}
	return e, e.Validate()
}

func required(kind Kind, names []string, missing ...bool) error {
	for i, m := range missing {
		if m {
			return configErr(kind, names[i], "required parameter missing")
		}
	}
	return nil
}

// decode fills out from params and pulls the trend entry out separately.
func decode(kind Kind, params map[string]any, out any) (rv.Drift, error) {
	rest := make(map[string]any, len(params))
	var rawTrend any
	for k, v := range params {
		switch strings.ToLower(k) {
		case "kind":
		case "trend":
			rawTrend = v
		default:
			rest[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.DecodeHookFuncType(unitHook),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rest); err != nil {
		return nil, configErr(kind, "", "%v", err)
	}

	trend, err := decodeTrend(rawTrend)
	if err != nil {
		return nil, configErr(kind, "trend", "%v", err)
	}
	return trend, nil
}

func decodeTrend(raw any) (rv.Drift, error) {
	switch v := raw.(type) {
	case nil:
		return rv.NoDrift{}, nil
	case rv.Drift:
		return v, nil
	}

	var tp trendParams
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &tp,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}

	switch strings.ToLower(tp.Kind) {
	case "", "none":
		return rv.NoDrift{}, nil
	case "polynomial":
		if len(tp.Coeffs) == 0 {
			return nil, errors.New("polynomial trend needs at least one coefficient")
		}
		return rv.NewPolynomial(tp.TRef, tp.Coeffs...), nil
	}
	return nil, fmt.Errorf("unknown trend kind %q", tp.Kind)
}

var (
	daysType    = reflect.TypeOf(days(0))
	mpsType     = reflect.TypeOf(mps(0))
	radiansType = reflect.TypeOf(radians(0))
)

// unitHook parses unit-tagged strings into the internal unit of the target.
func unitHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	switch to {
	case daysType:
		v, err := units.ParseTime(s)
		return days(v), err
	case mpsType:
		v, err := units.ParseVelocity(s)
		return mps(v), err
	case radiansType:
		v, err := units.ParseAngle(s)
		return radians(v), err
	}
	return data, nil
}
