package expr

import (
	"hash/fnv"
	"reflect"
	"sync"
	"sync/atomic"
)

// Identified is a Callable that tells apart instances sharing a name, such as
// two function files that both define "ocp".
type Identified interface {
	Callable
	Identity() uint64
}

var (
	lastIdentity atomic.Uint64
	// assigned holds identities handed out to comparable callables that do not
	// implement Identified. Entries are never removed.
	assigned sync.Map
)

// NewIdentity returns an identity no other callable in the process has.
func NewIdentity() uint64 {
	return lastIdentity.Add(1)
}

// IdentityOf returns fn's identity. Callables that do not implement
// Identified get one on first sight if they are comparable; equal values then
// share it. Other callables have identity zero and are told apart by name only.
func IdentityOf(fn Callable) uint64 {
	if id, ok := fn.(Identified); ok {
		return id.Identity()
	}
	if !reflect.TypeOf(fn).Comparable() {
		return 0
	}
	if v, ok := assigned.Load(fn); ok {
		return v.(uint64)
	}
	v, _ := assigned.LoadOrStore(fn, NewIdentity())
	return v.(uint64)
}

// nameIdentity derives a fixed identity from a name, for callables that are
// fully described by it.
func nameIdentity(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
