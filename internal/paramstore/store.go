// Package paramstore defines the interface for saving and restoring named
// parameter sets, so a table assembled from many files can be reused without
// reading them again.
//
// # What Is Stored
//
// A parameter set is the table's raw bindings, not its decoded values. Encoded
// strings such as "[function]graphite_ocp" are stored verbatim with the
// directory they were resolved against and are decoded again on restore, so
// restoring needs the same files to still be in place. Numbers and tabulated
// data are stored by value. Callables bound directly from Go have no stored
// form and make Capture fail.
//
// # Implementations
//
//   - internal/inmemorystore keeps sets in memory for tests and single runs.
//   - internal/boltstore persists sets in a bbolt file as msgpack records.
package paramstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/parameters"
)

var (
	// ErrSetNotFound is returned when loading or deleting a set that was never
	// saved.
	ErrSetNotFound = errors.New("parameter set not found")
	// ErrUnstorable is returned by Capture for bindings with no stored form.
	ErrUnstorable = errors.New("parameter cannot be stored")
)

// RecordKind tells which field of a Record holds its value.
type RecordKind uint8

const (
	RecordNumber RecordKind = iota + 1
	RecordText
	RecordData
)

// Record is one stored binding.
type Record struct {
	Name   string              `msgpack:"name"`
	Kind   RecordKind          `msgpack:"kind"`
	Number float64             `msgpack:"number,omitempty"`
	Text   string              `msgpack:"text,omitempty"`
	Data   *callable.Tabulated `msgpack:"data,omitempty"`
	Source string              `msgpack:"source,omitempty"`
}

// Value returns the raw value the record restores to.
func (r Record) Value() (any, error) {
	switch r.Kind {
	case RecordNumber:
		return r.Number, nil
	case RecordText:
		return r.Text, nil
	case RecordData:
		if r.Data == nil {
			return nil, fmt.Errorf("record %q has no data", r.Name)
		}
		return *r.Data, nil
	}
	return nil, fmt.Errorf("record %q has unknown kind %d", r.Name, r.Kind)
}

// Store saves and loads parameter sets by name.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Save replaces the set called name with records.
	Save(ctx context.Context, name string, records []Record) error

	// Load returns the records of the set called name, in the order they were
	// saved. It returns ErrSetNotFound for unknown names.
	Load(ctx context.Context, name string) ([]Record, error)

	// List returns the names of all saved sets in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the set called name. It returns ErrSetNotFound for
	// unknown names.
	Delete(ctx context.Context, name string) error

	// Close releases the store's resources.
	Close() error
}

// Capture converts the table's bindings into records, in name order.
func Capture(t *parameters.Table) ([]Record, error) {
	raws := t.Snapshot()
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec := Record{Name: raw.Name, Source: raw.Source}
		switch v := raw.Value.(type) {
		case string:
			rec.Kind, rec.Text = RecordText, v
		case callable.Tabulated:
			rec.Kind, rec.Data = RecordData, &v
		case *callable.Tabulated:
			d := *v
			rec.Kind, rec.Data = RecordData, &d
		default:
			e, err := t.Lookup(raw.Name)
			if err != nil {
				return nil, err
			}
			if e.Kind != parameters.EntryScalar {
				return nil, fmt.Errorf("%w: %q is bound to %T", ErrUnstorable, raw.Name, raw.Value)
			}
			rec.Kind, rec.Number = RecordNumber, e.Scalar
		}
		out = append(out, rec)
	}
	return out, nil
}

// Restore binds every record in t. Records sharing a source directory are
// applied as one update resolved against that directory.
func Restore(t *parameters.Table, records []Record) error {
	var sources []string
	groups := make(map[string]map[string]any)
	for _, rec := range records {
		v, err := rec.Value()
		if err != nil {
			return err
		}
		g, ok := groups[rec.Source]
		if !ok {
			g = make(map[string]any)
			groups[rec.Source] = g
			sources = append(sources, rec.Source)
		}
		g[rec.Name] = v
	}
	for _, src := range sources {
		if err := t.Update(groups[src], parameters.FromPath(src)); err != nil {
			return fmt.Errorf("restoring parameters from %q: %w", src, err)
		}
	}
	return nil
}
