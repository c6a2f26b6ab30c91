package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/fsutil"
	"github.com/specialistvlad/symparam/internal/model"
)

type variableBlock struct {
	Name   string   `hcl:"name,label"`
	Domain []string `hcl:"domain,optional"`
}

type equationBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value,attr"`
}

type sideBlock struct {
	Value hcl.Expression `hcl:"value,attr"`
	Type  *string        `hcl:"type,optional"`
}

type boundaryBlock struct {
	Unknown     string     `hcl:"unknown,label"`
	Left        *sideBlock `hcl:"left,block"`
	Right       *sideBlock `hcl:"right,block"`
	NegativeTab *sideBlock `hcl:"negative_tab,block"`
	PositiveTab *sideBlock `hcl:"positive_tab,block"`
	NoTab       *sideBlock `hcl:"no_tab,block"`
}

func (b *boundaryBlock) sides() map[model.Side]*sideBlock {
	return map[model.Side]*sideBlock{
		model.SideLeft:        b.Left,
		model.SideRight:       b.Right,
		model.SideNegativeTab: b.NegativeTab,
		model.SidePositiveTab: b.PositiveTab,
		model.SideNoTab:       b.NoTab,
	}
}

type coordinateBlock struct {
	Variable string         `hcl:"variable,label"`
	Level    *string        `hcl:"level,optional"`
	Min      hcl.Expression `hcl:"min,attr"`
	Max      hcl.Expression `hcl:"max,attr"`
}

type tabBlock struct {
	Tab      string         `hcl:"tab,label"`
	Property string         `hcl:"property,label"`
	Value    hcl.Expression `hcl:"value,attr"`
}

type geometryBlock struct {
	Domain      string             `hcl:"domain,label"`
	Coordinates []*coordinateBlock `hcl:"coordinate,block"`
	Tabs        []*tabBlock        `hcl:"tab,block"`
}

// modelFile decodes all top-level blocks a model definition may contain.
type modelFile struct {
	Name              *string          `hcl:"name,optional"`
	Variables         []*variableBlock `hcl:"variable,block"`
	SpatialVariables  []*variableBlock `hcl:"spatial_variable,block"`
	RHS               []*equationBlock `hcl:"rhs,block"`
	Algebraic         []*equationBlock `hcl:"algebraic,block"`
	InitialConditions []*equationBlock `hcl:"initial_condition,block"`
	Boundary          []*boundaryBlock `hcl:"boundary_condition,block"`
	Outputs           []*equationBlock `hcl:"output,block"`
	Events            []*equationBlock `hcl:"event,block"`
	Geometry          []*geometryBlock `hcl:"geometry,block"`
	Remain            hcl.Body         `hcl:",remain"`
}

// Definition is a model and its geometry as read from model files.
type Definition struct {
	Model    *model.Model
	Geometry *model.Geometry
}

// ModelLoader reads model definitions.
type ModelLoader struct{}

// NewModelLoader creates a new model file loader.
func NewModelLoader() *ModelLoader {
	return &ModelLoader{}
}

// Load parses every .hcl file named by paths into one model. Variables may be
// declared in any of the files. The model is named by the first "name"
// attribute found, or else after the first file.
func (l *ModelLoader) Load(ctx context.Context, paths ...string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.ResolvePaths(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no model files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered model files.", "count", len(files))

	parser := hclparse.NewParser()
	roots := make([]*modelFile, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		var root modelFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	name := strings.TrimSuffix(filepath.Base(files[0]), filepath.Ext(files[0]))
	for _, root := range roots {
		if root.Name != nil {
			name = *root.Name
			break
		}
	}

	tr := newTranslator()
	for _, root := range roots {
		for _, v := range root.Variables {
			if err := tr.declare(v.Name, expr.NewVariable(v.Name, v.Domain...)); err != nil {
				return nil, err
			}
		}
		for _, v := range root.SpatialVariables {
			if err := tr.declare(v.Name, expr.NewSpatialVariable(v.Name, v.Domain...)); err != nil {
				return nil, err
			}
		}
	}

	def := &Definition{Model: model.New(name), Geometry: &model.Geometry{}}
	for _, root := range roots {
		if err := l.translate(tr, root, def); err != nil {
			return nil, err
		}
	}
	logger.Debug("Model files translated.",
		"model", name,
		"rhs", def.Model.RHS.Len(),
		"algebraic", def.Model.Algebraic.Len(),
		"boundary_conditions", len(def.Model.BoundaryConditions),
	)
	return def, nil
}

func (l *ModelLoader) translate(tr *translator, root *modelFile, def *Definition) error {
	m := def.Model
	for _, c := range []struct {
		blocks []*equationBlock
		eqs    *model.Equations
	}{
		{root.RHS, m.RHS},
		{root.Algebraic, m.Algebraic},
		{root.InitialConditions, m.InitialConditions},
	} {
		for _, b := range c.blocks {
			unknown, err := tr.unknown(b.Name)
			if err != nil {
				return fmt.Errorf("%s: %w", b.Value.Range(), err)
			}
			n, err := tr.translate(b.Value)
			if err != nil {
				return err
			}
			c.eqs.Set(unknown, n)
		}
	}

	for _, b := range root.Boundary {
		unknown, err := tr.unknown(b.Unknown)
		if err != nil {
			return fmt.Errorf("boundary_condition: %w", err)
		}
		sides := b.sides()
		for _, side := range model.Sides {
			sb := sides[side]
			if sb == nil {
				continue
			}
			n, err := tr.translate(sb.Value)
			if err != nil {
				return err
			}
			typ := model.Dirichlet
			if sb.Type != nil {
				if typ, err = model.ParseConditionType(*sb.Type); err != nil {
					return fmt.Errorf("%s: %w", sb.Value.Range(), err)
				}
			}
			m.AddBoundaryCondition(unknown, side, model.Condition{Expr: n, Type: typ})
		}
	}

	for _, c := range []struct {
		blocks []*equationBlock
		named  *model.Named
	}{
		{root.Outputs, m.Variables},
		{root.Events, m.Events},
	} {
		for _, b := range c.blocks {
			n, err := tr.translate(b.Value)
			if err != nil {
				return err
			}
			c.named.Set(b.Name, n)
		}
	}

	for _, g := range root.Geometry {
		d := def.Geometry.Domain(g.Domain)
		for _, cb := range g.Coordinates {
			lo, err := tr.translate(cb.Min)
			if err != nil {
				return err
			}
			hi, err := tr.translate(cb.Max)
			if err != nil {
				return err
			}
			level := "primary"
			if cb.Level != nil {
				level = *cb.Level
			}
			d.Coordinates = append(d.Coordinates, model.Coordinate{
				Level:    level,
				Variable: cb.Variable,
				Limits:   model.Limits{Min: lo, Max: hi},
			})
		}
		for _, tb := range g.Tabs {
			v, err := tr.translate(tb.Value)
			if err != nil {
				return err
			}
			d.Tabs = append(d.Tabs, model.Tab{Tab: tb.Tab, Property: tb.Property, Value: v})
		}
	}
	return nil
}
