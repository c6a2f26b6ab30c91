package parameters

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
)

// Prefixes of encoded string values.
const (
	FunctionPrefix     = "[function]"
	InbuiltClassPrefix = "[inbuilt class]"
	DataPrefix         = "[data]"
	CurrentDataPrefix  = "[current data]"
)

func (t *Table) decode(name string, raw any, dir string) (Entry, error) {
	entry := Entry{Raw: raw, Source: dir}
	switch v := raw.(type) {
	case string:
		return t.decodeString(name, v, dir)
	case expr.Callable:
		if v == nil {
			return entry, paramErr(name, ErrInvalidParameter, "nil callable")
		}
		entry.Kind = EntryCallable
		entry.Callable = v
		return entry, nil
	case callable.Tabulated:
		entry.Kind = EntryData
		entry.Data = v
		return entry, nil
	case *callable.Tabulated:
		entry.Kind = EntryData
		entry.Data = *v
		return entry, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return entry, paramErr(name, ErrInvalidParameter, "unsupported value of type %T", raw)
	}
	entry.Kind = EntryScalar
	entry.Scalar = f
	return entry, nil
}

func (t *Table) decodeString(name, s, dir string) (Entry, error) {
	entry := Entry{Raw: s, Source: dir}
	switch {
	case strings.HasPrefix(s, FunctionPrefix):
		rel := s[len(FunctionPrefix):]
		entry.Kind = EntryCallable
		if t.registry != nil {
			if fn, ok := t.registry.Function(rel); ok {
				entry.Callable = fn
				return entry, nil
			}
		}
		if t.functions == nil {
			return entry, paramErr(name, ErrInvalidParameter, "no function loader configured for %q", s)
		}
		fn, err := t.functions.LoadFunction(dir, rel)
		if err != nil {
			return entry, paramErr(name, ErrInvalidParameter, "loading function %q: %v", rel, err)
		}
		entry.Callable = fn
		return entry, nil

	case strings.HasPrefix(s, InbuiltClassPrefix):
		class := s[len(InbuiltClassPrefix):]
		if t.registry == nil {
			return entry, paramErr(name, ErrUnknownParameter, "no registry for inbuilt class %q", class)
		}
		inst, err := t.registry.NewInstance(class)
		if err != nil {
			return entry, paramErr(name, ErrUnknownParameter, "%v", err)
		}
		entry.Kind = EntryCallable
		entry.Callable = inst
		return entry, nil

	case strings.HasPrefix(s, DataPrefix):
		rel := s[len(DataPrefix):]
		if t.data == nil {
			return entry, paramErr(name, ErrInvalidParameter, "no data loader configured for %q", s)
		}
		tab, err := t.data.LoadData(dir, rel)
		if err != nil {
			return entry, paramErr(name, ErrInvalidParameter, "loading data %q: %v", rel, err)
		}
		entry.Kind = EntryData
		entry.Data = tab
		return entry, nil

	case strings.HasPrefix(s, CurrentDataPrefix):
		rel := s[len(CurrentDataPrefix):]
		if t.data == nil {
			return entry, paramErr(name, ErrInvalidParameter, "no data loader configured for %q", s)
		}
		tab, err := t.data.LoadData(dir, rel)
		if err != nil {
			return entry, paramErr(name, ErrInvalidParameter, "loading current data %q: %v", rel, err)
		}
		profile, err := callable.NewCurrentData(tab.X, tab.Y)
		if err != nil {
			return entry, paramErr(name, ErrInvalidParameter, "%v", err)
		}
		entry.Kind = EntryCallable
		entry.Callable = profile
		return entry, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return entry, paramErr(name, ErrInvalidParameter, "%q is not a number", s)
	}
	entry.Kind = EntryScalar
	entry.Scalar = f
	return entry, nil
}

func isEncoded(s string) bool {
	return strings.HasPrefix(s, FunctionPrefix) ||
		strings.HasPrefix(s, InbuiltClassPrefix) ||
		strings.HasPrefix(s, DataPrefix) ||
		strings.HasPrefix(s, CurrentDataPrefix)
}

// toFloat converts Go numbers and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		if isEncoded(n) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

var errUncomparable = errors.New("values cannot be compared")

// sameValue decides whether rebinding existing to raw is a no-op. Numbers are
// compared numerically whatever form they arrive in, so "0.5" and 0.5 are the
// same value, and with the tolerance reconcile uses for derived values. Encoded strings must match exactly and resolve against the same
// directory. Callables must be the same instance, data the same samples.
func sameValue(existing Entry, raw any, dir string) (bool, error) {
	if s, ok := raw.(string); ok && isEncoded(s) {
		prev, isString := existing.Raw.(string)
		return isString && prev == s && existing.Source == dir, nil
	}
	if f, ok := toFloat(raw); ok {
		return existing.Kind == EntryScalar && closeEnough(existing.Scalar, f), nil
	}
	switch v := raw.(type) {
	case callable.Tabulated:
		return existing.Kind == EntryData && existing.Data.Equal(v), nil
	case *callable.Tabulated:
		return existing.Kind == EntryData && existing.Data.Equal(*v), nil
	case expr.Callable:
		if existing.Kind != EntryCallable {
			return false, nil
		}
		a, b := reflect.TypeOf(existing.Callable), reflect.TypeOf(v)
		if a != b {
			return false, nil
		}
		if !a.Comparable() {
			return false, fmt.Errorf("%w: %T", errUncomparable, v)
		}
		return existing.Callable == v, nil
	case string:
		// Neither encoded nor numeric: decode will reject it.
		return false, nil
	}
	return false, fmt.Errorf("%w: %T", errUncomparable, raw)
}
