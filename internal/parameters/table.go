package parameters

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/registry"
)

// EntryKind is the decoded shape of a table value.
type EntryKind int

const (
	EntryScalar EntryKind = iota
	EntryCallable
	EntryData
)

func (k EntryKind) String() string {
	switch k {
	case EntryScalar:
		return "scalar"
	case EntryCallable:
		return "callable"
	case EntryData:
		return "data"
	}
	return "unknown"
}

// Entry is a decoded table value together with the raw value and source path
// it was decoded from.
type Entry struct {
	Kind     EntryKind
	Scalar   float64
	Callable expr.Callable
	Data     callable.Tabulated
	Raw      any
	Source   string
}

// FunctionLoader resolves "[function]<rel>" values that are not registered Go
// functions.
type FunctionLoader interface {
	LoadFunction(dir, rel string) (expr.Callable, error)
}

// DataLoader resolves "[data]<rel>" values.
type DataLoader interface {
	LoadData(dir, rel string) (callable.Tabulated, error)
}

// Table binds parameter names to values.
type Table struct {
	entries   map[string]Entry
	registry  *registry.Registry
	functions FunctionLoader
	data      DataLoader
	version   uint64
}

// Option configures a Table.
type Option func(*Table)

// WithRegistry sets the registry used for inbuilt classes and named functions.
func WithRegistry(r *registry.Registry) Option {
	return func(t *Table) { t.registry = r }
}

// WithFunctionLoader sets the loader for function files.
func WithFunctionLoader(l FunctionLoader) Option {
	return func(t *Table) { t.functions = l }
}

// WithDataLoader sets the loader for data files.
func WithDataLoader(l DataLoader) Option {
	return func(t *Table) { t.data = l }
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{entries: make(map[string]Entry)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromValues creates a table holding values.
func FromValues(values map[string]any, opts ...Option) (*Table, error) {
	t := New(opts...)
	if err := t.Update(values); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup returns the entry bound to name.
func (t *Table) Lookup(name string) (Entry, error) {
	e, ok := t.entries[name]
	if !ok {
		return Entry{}, &Error{Name: name, Err: ErrUnknownParameter}
	}
	return e, nil
}

// Float returns the value of a scalar entry.
func (t *Table) Float(name string) (float64, error) {
	e, err := t.Lookup(name)
	if err != nil {
		return 0, err
	}
	if e.Kind != EntryScalar {
		return 0, paramErr(name, ErrInvalidParameter, "bound to a %s, not a number", e.Kind)
	}
	return e.Scalar, nil
}

// Has reports whether name is bound.
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Names returns the bound names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of bound names.
func (t *Table) Len() int { return len(t.entries) }

// Version changes every time the table is successfully modified.
func (t *Table) Version() uint64 { return t.version }

// Registry returns the registry the table resolves classes against.
func (t *Table) Registry() *registry.Registry { return t.registry }

// Set binds a single name, resolving encoded strings against sourcePath.
func (t *Table) Set(name string, raw any, sourcePath string) error {
	return t.Update(map[string]any{name: raw}, FromPath(sourcePath))
}

type updateConfig struct {
	checkConflict bool
	path          string
}

// UpdateOption configures Update.
type UpdateOption func(*updateConfig)

// CheckConflict rejects rebinding an existing name to a different value.
func CheckConflict() UpdateOption {
	return func(c *updateConfig) { c.checkConflict = true }
}

// FromPath resolves "[function]" and "[data]" values relative to dir.
func FromPath(dir string) UpdateOption {
	return func(c *updateConfig) { c.path = dir }
}

// Update binds every name in values. Names are processed in sorted order and
// the table is only modified if every value is valid, so a failed update
// leaves the table as it was.
func (t *Table) Update(values map[string]any, opts ...UpdateOption) error {
	var cfg updateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	values, err := t.reconcile(values)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	staged := make(map[string]Entry, len(values))
	for _, name := range names {
		raw := values[name]
		if existing, ok := t.entries[name]; ok && cfg.checkConflict {
			same, err := sameValue(existing, raw, cfg.path)
			if err != nil {
				return paramErr(name, ErrInvalidParameter, "%v", err)
			}
			if !same {
				return paramErr(name, ErrConflictingParameter, "already defined with value '%v'", describe(existing))
			}
			continue
		}
		entry, err := t.decode(name, raw, cfg.path)
		if err != nil {
			return err
		}
		staged[name] = entry
	}

	if len(staged) == 0 {
		return nil
	}
	for name, entry := range staged {
		t.entries[name] = entry
	}
	t.version++
	return nil
}

// Delete unbinds name. Deleting an unbound name is a no-op.
func (t *Table) Delete(name string) {
	if _, ok := t.entries[name]; !ok {
		return
	}
	delete(t.entries, name)
	t.version++
}

// Copy returns a table with the same options and bindings. Callables are
// shared with the original.
func (t *Table) Copy() *Table {
	c := &Table{
		entries:   make(map[string]Entry, len(t.entries)),
		registry:  t.registry,
		functions: t.functions,
		data:      t.data,
	}
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// RawValue is a binding as it was given to the table, before decoding.
type RawValue struct {
	Name   string
	Value  any
	Source string
}

// Snapshot returns the raw bindings in name order.
func (t *Table) Snapshot() []RawValue {
	out := make([]RawValue, 0, len(t.entries))
	for _, name := range t.Names() {
		e := t.entries[name]
		out = append(out, RawValue{Name: name, Value: e.Raw, Source: e.Source})
	}
	return out
}

func describe(e Entry) string {
	switch e.Kind {
	case EntryScalar:
		return fmt.Sprintf("%g", e.Scalar)
	case EntryCallable:
		return e.Callable.Name()
	case EntryData:
		return "[data]" + e.Data.Label
	}
	return fmt.Sprintf("%v", e.Raw)
}
