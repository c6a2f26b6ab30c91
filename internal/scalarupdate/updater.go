// Package scalarupdate refreshes the values held by an already substituted
// tree without changing its shape.
package scalarupdate

import (
	"fmt"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/parameters"
	"github.com/specialistvlad/symparam/internal/substitute"
)

// Updater writes current table values into substituted trees in place.
type Updater struct {
	engine *substitute.Engine
}

// New creates an updater that reads the engine's table and uses the engine to
// re-substitute callable sub-parameters.
func New(engine *substitute.Engine) *Updater {
	return &Updater{engine: engine}
}

// Update visits root in pre-order. Named scalars bound to a number in the
// table take that number; names the table does not know are left alone.
// Functions wrapping callables with sub-parameters get those re-read from the
// table and re-evaluated. root is returned for chaining; no node is replaced.
func (u *Updater) Update(root expr.Node) (expr.Node, error) {
	table := u.engine.Table()
	refreshed := make(map[callable.Holder]bool)

	var err error
	expr.Walk(root, func(n expr.Node) bool {
		if err != nil {
			return false
		}
		switch v := n.(type) {
		case *expr.Scalar:
			if v.Name() == "" {
				return true
			}
			entry, lookupErr := table.Lookup(v.Name())
			if lookupErr != nil || entry.Kind != parameters.EntryScalar {
				return true
			}
			if entry.Scalar != v.Value() {
				v.SetValue(entry.Scalar)
			}
		case *expr.Function:
			h, ok := v.Callable().(callable.Holder)
			if !ok || refreshed[h] {
				return true
			}
			refreshed[h] = true
			if err = u.refresh(v.Name(), h); err != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// refresh resets the sub-parameters of h from the callable currently bound to
// name, then lets the engine re-substitute and re-evaluate them.
func (u *Updater) refresh(name string, h callable.Holder) error {
	if name != "" {
		entry, err := u.engine.Table().Lookup(name)
		if err == nil && entry.Kind == parameters.EntryCallable {
			if bound, ok := entry.Callable.(callable.Holder); ok && bound != h {
				h.Parameters().Reset(bound.Parameters())
			}
		}
	}
	if err := u.engine.Prepare(name, h); err != nil {
		return fmt.Errorf("updating %s: %w", h.Name(), err)
	}
	return nil
}
