// Package units holds the internal unit contract and the conversions applied
// at the module boundary.
//
// Internally time is in days, velocity in m/s and angles in radians. Values
// are converted on the way in (Parse*) and on the way out (VelocitySeries,
// MetresToAU, KgToSolarMass) and nowhere else.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// AU is the astronomical unit in metres (IAU 2012).
	AU = 1.495978707e11
	// SolarMass in kilograms.
	SolarMass = 1.988409870698051e30
	// DaysPerYear is the Julian year.
	DaysPerYear = 365.25
)

var (
	ErrUnknownUnit = errors.New("units: unknown unit")
	ErrSyntax      = errors.New("units: malformed quantity")
)

// VelocityUnit is a named velocity scale.
type VelocityUnit struct {
	Name            string
	MetresPerSecond float64
}

func (u VelocityUnit) String() string { return u.Name }

var (
	CentimetrePerSecond = VelocityUnit{Name: "cm/s", MetresPerSecond: 0.01}
	MetrePerSecond      = VelocityUnit{Name: "m/s", MetresPerSecond: 1}
	KilometrePerSecond  = VelocityUnit{Name: "km/s", MetresPerSecond: 1000}
)

var velocityUnits = map[string]VelocityUnit{
	"cm/s": CentimetrePerSecond,
	"m/s":  MetrePerSecond,
	"km/s": KilometrePerSecond,
}

var timeUnits = map[string]float64{
	"s":     1.0 / 86400,
	"min":   1.0 / 1440,
	"h":     1.0 / 24,
	"hr":    1.0 / 24,
	"d":     1,
	"day":   1,
	"days":  1,
	"yr":    DaysPerYear,
	"year":  DaysPerYear,
	"years": DaysPerYear,
}

var angleUnits = map[string]float64{
	"rad": 1,
	"deg": math.Pi / 180,
}

// ParseVelocityUnit resolves a unit name such as "km/s".
func ParseVelocityUnit(name string) (VelocityUnit, error) {
	u, ok := velocityUnits[strings.TrimSpace(name)]
	if !ok {
		return VelocityUnit{}, fmt.Errorf("%w: %q is not a velocity unit", ErrUnknownUnit, name)
	}
	return u, nil
}

// ParseVelocity converts "5 km/s" to m/s. A bare number is taken as m/s.
func ParseVelocity(s string) (float64, error) {
	v, unit, err := split(s)
	if err != nil || unit == "" {
		return v, err
	}
	u, err := ParseVelocityUnit(unit)
	if err != nil {
		return 0, err
	}
	return v * u.MetresPerSecond, nil
}

// ParseTime converts "10 d" or "3 yr" to days. A bare number is taken as days.
func ParseTime(s string) (float64, error) {
	return parseScaled(s, timeUnits, "time")
}

// ParseAngle converts "90 deg" to radians. A bare number is taken as radians.
func ParseAngle(s string) (float64, error) {
	return parseScaled(s, angleUnits, "angle")
}

func parseScaled(s string, table map[string]float64, dim string) (float64, error) {
	v, unit, err := split(s)
	if err != nil || unit == "" {
		return v, err
	}
	scale, ok := table[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, unit, dim)
	}
	return v * scale, nil
}

func split(s string) (float64, string, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, "", fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if len(fields) == 1 {
		return v, "", nil
	}
	return v, fields[1], nil
}

// MetresToAU converts a length in metres to astronomical units.
func MetresToAU(m float64) float64 { return m / AU }

// KgToSolarMass converts a mass in kilograms to solar masses.
func KgToSolarMass(kg float64) float64 { return kg / SolarMass }
