package paramfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/parameters"
)

// ComponentFile is the parameter file every chemistry component directory
// holds.
const ComponentFile = "parameters.csv"

// ComponentGroups lists the component groups of a chemistry in load order.
var ComponentGroups = []string{"cell", "anode", "cathode", "separator", "electrolyte", "experiment"}

// Chemistry names a base chemistry and one component per group.
type Chemistry struct {
	Base       string
	Components map[string]string
}

// LoadChemistry loads every component of c from
// <root>/<base>/<group>s/<component>/parameters.csv. Components are applied
// in group order with conflict checking, each resolving encoded values
// against its own directory.
func LoadChemistry(ctx context.Context, table *parameters.Table, root string, c Chemistry) error {
	logger := ctxlog.FromContext(ctx).With("chemistry", c.Base)
	base := filepath.Join(root, c.Base)

	for _, group := range ComponentGroups {
		component, ok := c.Components[group]
		if !ok || component == "" {
			return fmt.Errorf("must provide %q parameters for %s chemistry", group, c.Base)
		}
		dir := filepath.Join(base, group+"s", component)
		params, err := ReadCSV(filepath.Join(dir, ComponentFile))
		if err != nil {
			return err
		}
		values := make(map[string]any, len(params))
		for _, p := range params {
			values[p.Name] = p.Value
		}
		if err := table.Update(values, parameters.CheckConflict(), parameters.FromPath(dir)); err != nil {
			return fmt.Errorf("loading %s %q: %w", group, component, err)
		}
		logger.Debug("Loaded chemistry component.", "group", group, "component", component, "parameters", len(values))
	}
	return nil
}
