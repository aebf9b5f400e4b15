// Package export writes evaluated RV curves as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/units"
)

var ErrMalformed = errors.New("export: malformed curve file")

// Curve is one evaluated curve together with the elements that produced it.
// Times are MJD; RV is in Unit.
type Curve struct {
	Kind             string         `json:"kind"`
	Params           map[string]any `json:"params"`
	Unit             string         `json:"unit"`
	T0               float64        `json:"t0_mjd"`
	A1SiniAU         float64        `json:"a1sini_au"`
	MassFunctionMsun float64        `json:"mass_function_msun"`
	Samples          int            `json:"samples"`
	Times            []float64      `json:"times"`
	RV               []float64      `json:"rv"`
}

// Build evaluates o at ts in unit u. T0 is the pericenter passage nearest
// the first sample.
func Build(o *orbit.Orbit, ts []float64, u units.VelocityUnit) (*Curve, error) {
	series, err := o.CurveIn(ts, u)
	if err != nil {
		return nil, err
	}
	ref := 0.0
	if len(ts) > 0 {
		ref = ts[0]
	}
	el := o.Elements()
	return &Curve{
		Kind:             string(el.Kind),
		Params:           el.Params(),
		Unit:             u.Name,
		T0:               o.PericenterTime(ref),
		A1SiniAU:         units.MetresToAU(o.A1Sini()),
		MassFunctionMsun: units.KgToSolarMass(o.MassFunction()),
		Samples:          len(ts),
		Times:            append([]float64(nil), ts...),
		RV:               series.Values,
	}, nil
}

// WriteCSV writes a time_mjd,rv_<unit> table.
func WriteCSV(w io.Writer, c *Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_mjd", "rv_" + c.Unit}); err != nil {
		return err
	}
	for i := range c.Times {
		row := []string{
			strconv.FormatFloat(c.Times[i], 'f', -1, 64),
			strconv.FormatFloat(c.RV[i], 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV and returns the times, the
// values and the unit named in the header.
func ReadCSV(r io.Reader) ([]float64, []float64, string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 || !strings.HasPrefix(records[0][1], "rv_") {
		return nil, nil, "", fmt.Errorf("%w: missing header", ErrMalformed)
	}
	unit := strings.TrimPrefix(records[0][1], "rv_")

	times := make([]float64, 0, len(records)-1)
	values := make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, "", fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, "", fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, unit, nil
}

// WriteJSON writes c as indented JSON.
func WriteJSON(w io.Writer, c *Curve) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ExportCSV writes c to path.
func ExportCSV(path string, c *Curve) error {
	return writeFile(path, c, WriteCSV)
}

// ExportJSON writes c to path.
func ExportJSON(path string, c *Curve) error {
	return writeFile(path, c, WriteJSON)
}

func writeFile(path string, c *Curve, write func(io.Writer, *Curve) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file, c); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
