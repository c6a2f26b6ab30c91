// Package boltstore persists parameter sets in a bbolt database file. Each set
// is one key in a single bucket; its value is the msgpack encoding of the
// set's records together with the time it was saved.
package boltstore

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/paramstore"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

const (
	// Perm is the mode new database files are created with.
	Perm = 0600
	// OpenTimeout bounds how long Open waits for another process's lock.
	OpenTimeout = 3 * time.Second
)

var setsBucket = []byte("parameter_sets")

// envelope is the stored form of one set.
type envelope struct {
	Saved   time.Time           `msgpack:"saved"`
	Records []paramstore.Record `msgpack:"records"`
}

// Store is a bbolt-backed implementation of paramstore.Store.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := bolt.Open(path, Perm, &bolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(setsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise parameter store %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Opened parameter store.", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Save replaces the named set.
func (s *Store) Save(ctx context.Context, name string, records []paramstore.Record) error {
	if name == "" {
		return fmt.Errorf("parameter set name must not be empty")
	}
	buf, err := msgpack.Marshal(&envelope{Saved: s.now().UTC(), Records: records})
	if err != nil {
		return fmt.Errorf("encoding parameter set %q: %w", name, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(setsBucket).Put([]byte(name), buf)
	})
	if err != nil {
		return fmt.Errorf("saving parameter set %q: %w", name, err)
	}
	ctxlog.FromContext(ctx).Debug("Saved parameter set.", "set", name, "records", len(records), "bytes", len(buf))
	return nil
}

// Load decodes the named set.
func (s *Store) Load(ctx context.Context, name string) ([]paramstore.Record, error) {
	var env envelope
	err := s.db.View(func(tx *bolt.Tx) error {
		buf := tx.Bucket(setsBucket).Get([]byte(name))
		if buf == nil {
			return fmt.Errorf("%w: %q", paramstore.ErrSetNotFound, name)
		}
		// buf is only valid inside the transaction; Unmarshal copies out of it.
		return msgpack.Unmarshal(buf, &env)
	})
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loaded parameter set.", "set", name, "records", len(env.Records), "saved", env.Saved)
	return env.Records, nil
}

// List returns the stored set names. bbolt keeps keys sorted, so the result is
// in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(setsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Delete removes the named set.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(setsBucket)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", paramstore.ErrSetNotFound, name)
		}
		return b.Delete([]byte(name))
	})
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ paramstore.Store = (*Store)(nil)
