package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/hcl"
	"github.com/specialistvlad/symparam/internal/inmemorystore"
	"github.com/specialistvlad/symparam/internal/paramfile"
	"github.com/specialistvlad/symparam/internal/parameters"
	"github.com/specialistvlad/symparam/internal/paramstore"
	"github.com/specialistvlad/symparam/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	table    *parameters.Table
	sets     paramstore.Store
}

// NewApp is the constructor for the main application. It returns an App with
// its own logger, a validated registry, an empty parameter table that
// resolves "[function]" and "[data]" values from disk, and an in-memory store
// for parameter sets used when no store path is configured.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWithModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}

	table := parameters.New(
		parameters.WithRegistry(reg),
		parameters.WithFunctionLoader(hcl.NewFunctionLoader()),
		parameters.WithDataLoader(paramfile.DataLoader{}),
	)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		table:    table,
		sets:     inmemorystore.New(),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Table returns the application's parameter table.
func (a *App) Table() *parameters.Table {
	return a.table
}

// Sets returns the in-memory parameter set store. It outlives a single Run,
// so a set saved by one run can be loaded by the next.
func (a *App) Sets() paramstore.Store {
	return a.sets
}
