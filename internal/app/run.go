package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/symparam/internal/assemble"
	"github.com/specialistvlad/symparam/internal/boltstore"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/hcl"
	"github.com/specialistvlad/symparam/internal/model"
	"github.com/specialistvlad/symparam/internal/paramfile"
	"github.com/specialistvlad/symparam/internal/paramstore"
	"github.com/specialistvlad/symparam/internal/substitute"
	"github.com/specialistvlad/symparam/internal/sweep"
)

// Run populates the parameter table, assembles the model and writes its
// outputs, then runs the configured sweep.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.populate(ctx); err != nil {
		return err
	}
	a.logger.Info("Parameter table ready.", "parameters", a.table.Len())

	def, err := hcl.NewModelLoader().Load(ctx, a.config.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	assembler := assemble.New(substitute.New(a.table), nil)
	if err := assembler.Assemble(ctx, def.Model, assemble.ModeSubstitute); err != nil {
		return fmt.Errorf("failed to assemble model: %w", err)
	}
	if err := assembler.ProcessGeometry(ctx, def.Geometry); err != nil {
		return fmt.Errorf("failed to process geometry: %w", err)
	}
	if err := a.printOutputs(def.Model); err != nil {
		return err
	}

	if a.config.Sweep != nil {
		if err := a.sweep(ctx, assembler, def.Model); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// populate fills the table from a saved set and then from parameter files, so
// files override what was saved. The result is saved if requested. Sets live
// in the bbolt file at StorePath, or in the App's memory without one.
func (a *App) populate(ctx context.Context) error {
	store := a.sets
	if a.config.StorePath != "" {
		s, err := boltstore.Open(ctx, a.config.StorePath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	if a.config.LoadSet != "" {
		records, err := store.Load(ctx, a.config.LoadSet)
		if err != nil {
			return fmt.Errorf("failed to load parameter set: %w", err)
		}
		if err := paramstore.Restore(a.table, records); err != nil {
			return err
		}
		a.logger.Info("Restored parameter set.", "set", a.config.LoadSet, "parameters", len(records))
	}

	if len(a.config.ParamPaths) > 0 {
		set, err := paramfile.Load(ctx, a.config.ParamPaths...)
		if err != nil {
			return fmt.Errorf("failed to load parameters: %w", err)
		}
		if err := paramfile.Apply(ctx, a.table, set); err != nil {
			return err
		}
	}

	if a.config.SaveSet != "" {
		records, err := paramstore.Capture(a.table)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, a.config.SaveSet, records); err != nil {
			return err
		}
		a.logger.Info("Saved parameter set.", "set", a.config.SaveSet, "parameters", len(records))
	}
	return nil
}

// printOutputs writes one line per output variable: its value when it is a
// constant, otherwise its substituted tree.
func (a *App) printOutputs(m *model.Model) error {
	w := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for i := 0; i < m.Variables.Len(); i++ {
		name, eq := m.Variables.At(i)
		if v, err := substitute.EvaluateProcessed(eq); err == nil {
			fmt.Fprintf(w, "%s\t%g\n", name, v)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", name, eq)
		}
	}
	return w.Flush()
}

func (a *App) sweep(ctx context.Context, assembler *assemble.Assembler, m *model.Model) error {
	res, err := sweep.Run(ctx, assembler, m, *a.config.Sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, res.Parameter)
	for _, name := range res.Outputs {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, p := range res.Points {
		fmt.Fprintf(w, "%g", p.Value)
		for _, name := range res.Outputs {
			if v, ok := p.Outputs[name]; ok {
				fmt.Fprintf(w, "\t%g", v)
			} else {
				fmt.Fprint(w, "\t-")
			}
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if a.config.PlotPath != "" {
		if err := sweep.Plot(res, a.config.PlotPath); err != nil {
			return err
		}
		a.logger.Info("Sweep chart written.", "path", a.config.PlotPath)
	}
	return nil
}
