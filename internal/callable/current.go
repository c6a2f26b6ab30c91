package callable

import (
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/symparam/internal/expr"
	"gonum.org/v1/gonum/interp"
)

// Names of the sub-parameters used by the current setters.
const (
	CurrentParam   = "Current [A]"
	FrequencyParam = "Frequency [Hz]"
)

// ErrNotEvaluated is returned when a setter is called before its
// sub-parameters have been substituted.
var ErrNotEvaluated = errors.New("current setter parameters have not been evaluated")

func evaluated(p *ParameterSet, name, setter string) (float64, error) {
	v, ok := p.Evaluated(name)
	if !ok {
		return 0, fmt.Errorf("%s: %w (%q)", setter, ErrNotEvaluated, name)
	}
	return v, nil
}

func timeArg(name string, args []float64) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected time as the only argument, got %d arguments", name, len(args))
	}
	return args[0], nil
}

// ConstantCurrent draws a fixed current.
type ConstantCurrent struct {
	id     uint64
	params *ParameterSet
}

// NewConstantCurrent draws the cell's typical current.
func NewConstantCurrent() *ConstantCurrent {
	p := NewParameterSet()
	p.Set(CurrentParam, expr.NewParameter("Typical current [A]"))
	return &ConstantCurrent{id: expr.NewIdentity(), params: p}
}

func (c *ConstantCurrent) Name() string              { return "GetConstantCurrent" }
func (c *ConstantCurrent) Identity() uint64          { return c.id }
func (c *ConstantCurrent) Parameters() *ParameterSet { return c.params }

func (c *ConstantCurrent) Call(args ...float64) (float64, error) {
	if _, err := timeArg(c.Name(), args); err != nil {
		return 0, err
	}
	return evaluated(c.params, CurrentParam, c.Name())
}

// Derivative is zero: the current does not depend on time.
func (c *ConstantCurrent) Derivative(int) expr.Callable {
	return zero{name: "d" + c.Name()}
}

// SinusoidalCurrent draws I(t) = A sin(2 pi f t).
type SinusoidalCurrent struct {
	id     uint64
	params *ParameterSet
}

// NewSinusoidalCurrent uses the typical current as amplitude and the
// "Current frequency [Hz]" parameter as frequency.
func NewSinusoidalCurrent() *SinusoidalCurrent {
	p := NewParameterSet()
	p.Set(CurrentParam, expr.NewParameter("Typical current [A]"))
	p.Set(FrequencyParam, expr.NewParameter("Current frequency [Hz]"))
	return &SinusoidalCurrent{id: expr.NewIdentity(), params: p}
}

func (s *SinusoidalCurrent) Name() string              { return "GetSinusoidalCurrent" }
func (s *SinusoidalCurrent) Identity() uint64          { return s.id }
func (s *SinusoidalCurrent) Parameters() *ParameterSet { return s.params }

func (s *SinusoidalCurrent) Call(args ...float64) (float64, error) {
	t, err := timeArg(s.Name(), args)
	if err != nil {
		return 0, err
	}
	amplitude, err := evaluated(s.params, CurrentParam, s.Name())
	if err != nil {
		return 0, err
	}
	freq, err := evaluated(s.params, FrequencyParam, s.Name())
	if err != nil {
		return 0, err
	}
	return amplitude * math.Sin(2*math.Pi*freq*t), nil
}

// CurrentData replays a sampled current profile. The samples are scaled by the
// evaluated "Current [A]" sub-parameter, so the table is rebuilt by
// Interpolate whenever that value changes.
type CurrentData struct {
	id       uint64
	params   *ParameterSet
	times    []float64
	profile  []float64
	pl       interp.PiecewiseLinear
	prepared bool
}

// NewCurrentData creates a setter over a (time, current) profile. Tables
// build one for "[current data]" values.
func NewCurrentData(times, profile []float64) (*CurrentData, error) {
	if len(times) != len(profile) {
		return nil, fmt.Errorf("current data: %d times but %d samples", len(times), len(profile))
	}
	if len(times) < 2 {
		return nil, errors.New("current data: at least two samples are required")
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errors.New("current data: times must be strictly increasing")
		}
	}
	p := NewParameterSet()
	p.Set(CurrentParam, expr.NewParameter("Typical current [A]"))
	return &CurrentData{
		id:      expr.NewIdentity(),
		params:  p,
		times:   append([]float64(nil), times...),
		profile: append([]float64(nil), profile...),
	}, nil
}

func (d *CurrentData) Name() string              { return "GetCurrentData" }
func (d *CurrentData) Identity() uint64          { return d.id }
func (d *CurrentData) Parameters() *ParameterSet { return d.params }

// Interpolate refits the profile with the current scale.
func (d *CurrentData) Interpolate() error {
	scale, err := evaluated(d.params, CurrentParam, d.Name())
	if err != nil {
		return err
	}
	scaled := make([]float64, len(d.profile))
	for i, v := range d.profile {
		scaled[i] = v * scale
	}
	if err := d.pl.Fit(d.times, scaled); err != nil {
		return fmt.Errorf("%s: %w", d.Name(), err)
	}
	d.prepared = true
	return nil
}

func (d *CurrentData) Call(args ...float64) (float64, error) {
	t, err := timeArg(d.Name(), args)
	if err != nil {
		return 0, err
	}
	if !d.prepared {
		return 0, fmt.Errorf("%s: %w", d.Name(), ErrNotEvaluated)
	}
	return d.pl.Predict(t), nil
}

type zero struct{ name string }

func (z zero) Name() string                      { return z.name }
func (z zero) Call(...float64) (float64, error) { return 0, nil }
