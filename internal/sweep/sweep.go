// Package sweep re-evaluates an assembled model's outputs over a range of
// values of one parameter. Each step rebinds the parameter and runs the
// scalar updater over the model, so the trees are refreshed in place rather
// than substituted again.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/symparam/internal/assemble"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/model"
	"github.com/specialistvlad/symparam/internal/parameters"
	"github.com/specialistvlad/symparam/internal/substitute"
)

// Spec names the parameter to sweep and the values to visit.
type Spec struct {
	Parameter string
	Values    []float64
}

// ParseSpec parses "name=v1,v2,...". The name may contain any character but
// the last '='.
func ParseSpec(s string) (Spec, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return Spec{}, fmt.Errorf("sweep %q: expected name=v1,v2,...", s)
	}
	spec := Spec{Parameter: strings.TrimSpace(s[:i])}
	for _, f := range strings.Split(s[i+1:], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Spec{}, fmt.Errorf("sweep %q: %q is not a number", s, f)
		}
		spec.Values = append(spec.Values, v)
	}
	return spec, nil
}

// Point holds the outputs evaluated at one parameter value. Outputs that are
// not constant at that point are absent.
type Point struct {
	Value   float64
	Outputs map[string]float64
}

// Result is a completed sweep.
type Result struct {
	Parameter string
	// Outputs lists the output names in model order.
	Outputs []string
	Points  []Point
}

// Series returns the values of one output across the sweep, paired with the
// parameter values they were evaluated at.
func (r *Result) Series(output string) (xs, ys []float64) {
	for _, p := range r.Points {
		if v, ok := p.Outputs[output]; ok {
			xs = append(xs, p.Value)
			ys = append(ys, v)
		}
	}
	return xs, ys
}

// Run sweeps spec over m, which must already be substituted by a. The
// parameter's original binding is restored afterwards, and m is updated back
// to it.
func Run(ctx context.Context, a *assemble.Assembler, m *model.Model, spec Spec) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("parameter", spec.Parameter)
	table := a.Engine().Table()

	orig, err := table.Lookup(spec.Parameter)
	if err != nil {
		return nil, err
	}
	if orig.Kind != parameters.EntryScalar {
		return nil, fmt.Errorf("cannot sweep %q: bound to a %s", spec.Parameter, orig.Kind)
	}
	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("cannot sweep %q: no values", spec.Parameter)
	}

	res := &Result{Parameter: spec.Parameter, Outputs: m.Variables.Names()}
	logger.Info("Starting sweep.", "points", len(spec.Values), "outputs", len(res.Outputs))

	runErr := func() error {
		for _, v := range spec.Values {
			if err := table.Set(spec.Parameter, v, orig.Source); err != nil {
				return err
			}
			if err := a.Assemble(ctx, m, assemble.ModeUpdate); err != nil {
				return err
			}
			pt, err := evaluate(m, v)
			if err != nil {
				return err
			}
			logger.Debug("Evaluated sweep point.", "value", v, "outputs", len(pt.Outputs))
			res.Points = append(res.Points, pt)
		}
		return nil
	}()

	restoreErr := table.Set(spec.Parameter, orig.Raw, orig.Source)
	if restoreErr == nil {
		restoreErr = a.Assemble(ctx, m, assemble.ModeUpdate)
	}
	if err := errors.Join(runErr, restoreErr); err != nil {
		return nil, fmt.Errorf("sweeping %q: %w", spec.Parameter, err)
	}
	logger.Info("Finished sweep.")
	return res, nil
}

func evaluate(m *model.Model, value float64) (Point, error) {
	pt := Point{Value: value, Outputs: make(map[string]float64, m.Variables.Len())}
	for i := 0; i < m.Variables.Len(); i++ {
		name, eq := m.Variables.At(i)
		v, err := substitute.EvaluateProcessed(eq)
		if errors.Is(err, substitute.ErrNotConstant) {
			continue
		}
		if err != nil {
			return pt, fmt.Errorf("output %q: %w", name, err)
		}
		pt.Outputs[name] = v
	}
	return pt, nil
}
