// Package timeconv reduces caller-supplied absolute times to raw MJD days,
// the only time representation the orbit code understands.
//
// No time-scale conversion is done: the caller states which scale its
// timestamps are in, and the numbers pass through on that scale.
package timeconv

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Format names how a time value is written.
type Format string

const (
	MJD  Format = "mjd"
	JD   Format = "jd"
	Unix Format = "unix"
	ISO  Format = "iso"
)

const (
	jdOffset      = 2400000.5
	unixEpochMJD  = 40587.0
	secondsPerDay = 86400.0
)

// ErrDomain indicates a time value that cannot be read in the stated format.
var ErrDomain = errors.New("timeconv: invalid time value")

// DomainError locates the offending value.
type DomainError struct {
	Index  int
	Value  string
	Format Format
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: element %d (%q) as %s: %s", ErrDomain, e.Index, e.Value, e.Format, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseFormat validates a format name. The empty string selects MJD.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return MJD, nil
	case MJD, JD, Unix, ISO:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown time format %q", ErrDomain, s)
}

// ToRawTime converts each value into MJD days.
func ToRawTime(values []string, format Format) ([]float64, error) {
	if format == "" {
		format = MJD
	}
	out := make([]float64, len(values))
	for i, v := range values {
		t, err := convert(strings.TrimSpace(v), format)
		if err != nil {
			return nil, &DomainError{Index: i, Value: v, Format: format, Reason: err.Error()}
		}
		out[i] = t
	}
	return out, nil
}

// FromTime converts Go times to MJD days.
func FromTime(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = TimeToMJD(t)
	}
	return out
}

// TimeToMJD converts a single time to MJD days.
func TimeToMJD(t time.Time) float64 {
	return float64(t.Unix())/secondsPerDay + float64(t.Nanosecond())/(secondsPerDay*1e9) + unixEpochMJD
}

// MJDToTime is the inverse of TimeToMJD, to the nearest nanosecond.
func MJDToTime(mjd float64) time.Time {
	secs := (mjd - unixEpochMJD) * secondsPerDay
	whole := math.Floor(secs)
	nsec := math.Round((secs - whole) * 1e9)
	return time.Unix(int64(whole), int64(nsec)).UTC()
}

func convert(v string, format Format) (float64, error) {
	switch format {
	case MJD, JD, Unix:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.New("not a number")
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, errors.New("not a finite number")
		}
		switch format {
		case JD:
			return x - jdOffset, nil
		case Unix:
			return x/secondsPerDay + unixEpochMJD, nil
		}
		return x, nil
	case ISO:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return TimeToMJD(t), nil
			}
		}
		return 0, errors.New("not an ISO 8601 timestamp")
	}
	return 0, fmt.Errorf("unknown format %q", format)
}
