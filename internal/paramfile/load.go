package paramfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/symparam/internal/config"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/fsutil"
	"github.com/specialistvlad/symparam/internal/hcl"
	"github.com/specialistvlad/symparam/internal/parameters"
)

// Load reads CSV and HCL parameter files from paths, choosing the reader by
// file extension. Directories are searched recursively for both.
func Load(ctx context.Context, paths ...string) (*config.ParameterSet, error) {
	files, err := fsutil.ResolvePaths(paths, ".csv", ".hcl")
	if err != nil {
		return nil, err
	}

	loaders := map[string]config.Loader{
		".csv": NewCSVLoader(),
		".hcl": hcl.NewParameterLoader(),
	}
	set := &config.ParameterSet{}
	for _, file := range files {
		loader, ok := loaders[filepath.Ext(file)]
		if !ok {
			return nil, fmt.Errorf("unsupported parameter file %s", file)
		}
		s, err := loader.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		set.Merge(s)
	}
	return set, nil
}

// Apply binds every parameter of set in table. Each source directory is
// applied as one update with that directory as the source path; a failing
// directory leaves the ones applied before it in place.
func Apply(ctx context.Context, table *parameters.Table, set *config.ParameterSet, opts ...parameters.UpdateOption) error {
	logger := ctxlog.FromContext(ctx)
	groups, err := set.Groups()
	if err != nil {
		return err
	}
	for _, g := range groups {
		groupOpts := append([]parameters.UpdateOption{parameters.FromPath(g.Dir)}, opts...)
		if err := table.Update(g.Values, groupOpts...); err != nil {
			return fmt.Errorf("applying parameters from %s: %w", g.Dir, err)
		}
		logger.Debug("Applied parameters.", "dir", g.Dir, "count", len(g.Values))
	}
	return nil
}
