package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// evalContext returns the context parameter values and function bodies are
// evaluated in. vars may be nil.
func evalContext(vars map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: vars,
		Functions: mathFunctions(),
	}
}

// decodeParameterValue evaluates a parameter's value expression into either a
// float64 or a string.
func decodeParameterValue(ctx context.Context, e hcl.Expression) (any, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := e.Value(evalContext(nil))
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be a known number or string")
	}

	switch {
	case val.Type().Equals(cty.Number):
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}
		return f, nil
	case val.Type().Equals(cty.String):
		return val.AsString(), nil
	}

	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to a parameter value: %w", val.Type().FriendlyName(), err)
	}
	logger.Debug("Implicitly converted value type.", "from", val.Type().FriendlyName(), "to", "number")
	var f float64
	if err := gocty.FromCtyValue(converted, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// numberVal converts an evaluated function body to float64.
func numberVal(val cty.Value) (float64, error) {
	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}
	if converted.IsNull() || !converted.IsKnown() {
		return 0, fmt.Errorf("result is not a known number")
	}
	var f float64
	if err := gocty.FromCtyValue(converted, &f); err != nil {
		return 0, err
	}
	return f, nil
}
