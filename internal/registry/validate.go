package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/symparam/internal/ctxlog"
)

// ValidateRegistry instantiates every class once and checks that each factory
// and function produces a usable callable.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Classes() {
		inst := r.classes[name]()
		if inst == nil {
			errs = append(errs, fmt.Sprintf("class '%s': factory returned nil", name))
			continue
		}
		if inst.Name() != name {
			logger.Warn("Inbuilt class reports a different name than it is registered under.", "registered", name, "reported", inst.Name())
		}
	}
	for _, name := range r.Functions() {
		if r.functions[name] == nil {
			errs = append(errs, fmt.Sprintf("function '%s': registered as nil", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "classes", len(r.classes), "functions", len(r.functions))
	return nil
}
