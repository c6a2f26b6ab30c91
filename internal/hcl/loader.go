package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/symparam/internal/config"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/fsutil"
)

// ParameterLoader is the HCL implementation of the config.Loader interface.
type ParameterLoader struct{}

// NewParameterLoader creates a new HCL parameter loader.
func NewParameterLoader() *ParameterLoader {
	return &ParameterLoader{}
}

type parameterBlock struct {
	Name        string         `hcl:"name,label"`
	Value       hcl.Expression `hcl:"value,attr"`
	Description *string        `hcl:"description,optional"`
}

// parameterFile decodes the parameter blocks of a file and ignores the rest,
// so parameters may share a file with function definitions.
type parameterFile struct {
	Parameters []*parameterBlock `hcl:"parameter,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// Load parses every .hcl file named by paths, searching directories
// recursively.
func (l *ParameterLoader) Load(ctx context.Context, paths ...string) (*config.ParameterSet, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL parameter loader started.", "path_count", len(paths))

	files, err := fsutil.ResolvePaths(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	set := &config.ParameterSet{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root parameterFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		dir := filepath.Dir(file)
		for _, block := range root.Parameters {
			value, err := decodeParameterValue(ctx, block.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %q: %w", block.Value.Range(), block.Name, err)
			}
			set.Add(&config.Parameter{
				Name:  block.Name,
				Value: value,
				Dir:   dir,
				File:  file,
				Line:  block.Value.Range().Start.Line,
			})
		}
	}

	logger.Debug("HCL parameter loading complete.", "parameters", set.Len())
	return set, nil
}
