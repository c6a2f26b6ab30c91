package inmemorystore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/symparam/internal/paramstore"
)

// Store is an in-memory implementation of paramstore.Store. Sets are keyed by
// name in a sync.Map and copied on the way in and out, so callers never share
// a slice with the store.
type Store struct {
	sets sync.Map // Key: set name, Value: []paramstore.Record
}

// New creates a new, empty in-memory parameter set store.
func New() paramstore.Store {
	return &Store{}
}

// Save replaces the named set.
func (s *Store) Save(ctx context.Context, name string, records []paramstore.Record) error {
	s.sets.Store(name, copyRecords(records))
	return nil
}

// Load returns a copy of the named set.
func (s *Store) Load(ctx context.Context, name string) ([]paramstore.Record, error) {
	v, ok := s.sets.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", paramstore.ErrSetNotFound, name)
	}
	return copyRecords(v.([]paramstore.Record)), nil
}

// List returns the saved set names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	s.sets.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names, nil
}

// Delete removes the named set.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, ok := s.sets.LoadAndDelete(name); !ok {
		return fmt.Errorf("%w: %q", paramstore.ErrSetNotFound, name)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func copyRecords(in []paramstore.Record) []paramstore.Record {
	out := make([]paramstore.Record, len(in))
	for i, r := range in {
		if r.Data != nil {
			d := *r.Data
			d.X = slices.Clone(d.X)
			d.Y = slices.Clone(d.Y)
			r.Data = &d
		}
		out[i] = r
	}
	return out
}
