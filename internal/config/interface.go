package config

import (
	"context"
)

// Loader is the interface for a format-specific parameter file loader.
type Loader interface {
	// Load reads parameter files from the given files or directories and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*ParameterSet, error)
}
