package parameters

import "math"

// Names tied together by the current consistency rule.
const (
	CRate          = "C-rate"
	TypicalCurrent = "Typical current [A]"
	CellCapacity   = "Cell capacity [A.h]"
)

// reconcile enforces rate * capacity == current across an update batch and
// fills in whichever of rate or current is missing. The input map is not
// modified.
func (t *Table) reconcile(values map[string]any) (map[string]any, error) {
	rate, hasRate := numeric(values, CRate)
	current, hasCurrent := numeric(values, TypicalCurrent)

	if hasRate && rate == 0 {
		return nil, paramErr(CRate, ErrInvalidParameter,
			"cannot be zero; use a constant current setter with zero current instead")
	}
	if hasCurrent && current == 0 {
		return nil, paramErr(TypicalCurrent, ErrInvalidParameter,
			"cannot be zero; use a constant current setter with zero current instead")
	}

	capacity, hasCapacity := numeric(values, CellCapacity)
	if !hasCapacity {
		if e, ok := t.entries[CellCapacity]; ok && e.Kind == EntryScalar {
			capacity, hasCapacity = e.Scalar, true
		}
	}
	if !hasCapacity || (!hasRate && !hasCurrent) {
		return values, nil
	}

	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	switch {
	case hasRate && hasCurrent:
		if !closeEnough(rate*capacity, current) {
			return nil, paramErr(CRate, ErrInvalidParameter,
				"C-rate (%gC) and typical current (%g A) do not match capacity (%g A.h)", rate, current, capacity)
		}
	case capacity == 0:
		return nil, paramErr(CellCapacity, ErrInvalidParameter,
			"cannot be zero when deriving C-rate or typical current")
	case hasRate:
		derived := rate * capacity
		if err := checkDerived(TypicalCurrent, derived); err != nil {
			return nil, err
		}
		out[TypicalCurrent] = derived
	case hasCurrent:
		derived := current / capacity
		if err := checkDerived(CRate, derived); err != nil {
			return nil, err
		}
		out[CRate] = derived
	}
	return out, nil
}

// checkDerived holds derived values to the rules given values obey.
func checkDerived(name string, v float64) error {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return paramErr(name, ErrInvalidParameter, "derived value %g is not a usable %s", v, name)
	}
	return nil
}

func numeric(values map[string]any, name string) (float64, bool) {
	v, ok := values[name]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// closeEnough compares within a few ulps so that values which round-trip
// through text still match.
func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= 1e-12*scale
}
