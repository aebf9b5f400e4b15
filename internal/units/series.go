package units

// VelocitySeries is a velocity curve tagged with its presentation unit.
type VelocitySeries struct {
	Values []float64
	Unit   VelocityUnit
}

// NewVelocitySeries converts raw m/s values into unit u.
func NewVelocitySeries(raw []float64, u VelocityUnit) VelocitySeries {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v / u.MetresPerSecond
	}
	return VelocitySeries{Values: out, Unit: u}
}

// To re-expresses the series in unit u.
func (s VelocitySeries) To(u VelocityUnit) VelocitySeries {
	return NewVelocitySeries(s.Raw(), u)
}

// Raw returns the values in m/s.
func (s VelocitySeries) Raw() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = v * s.Unit.MetresPerSecond
	}
	return out
}
