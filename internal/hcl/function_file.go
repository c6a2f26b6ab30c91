package hcl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/zclconf/go-cty/cty"
)

// FunctionExt is the extension appended to "[function]" references that are
// not registered Go functions.
const FunctionExt = ".hcl"

type functionBlock struct {
	Name      string         `hcl:"name,label"`
	Arguments []string       `hcl:"arguments,attr"`
	Body      hcl.Expression `hcl:"body,attr"`
}

type functionFile struct {
	Functions []*functionBlock `hcl:"function,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// FunctionLoader resolves "[function]<rel>" values to functions defined in
// <dir>/<rel>.hcl. It implements parameters.FunctionLoader.
type FunctionLoader struct{}

// NewFunctionLoader creates a new function file loader.
func NewFunctionLoader() *FunctionLoader {
	return &FunctionLoader{}
}

// LoadFunction parses the file and returns the function named after the file,
// or its only function.
func (l *FunctionLoader) LoadFunction(dir, rel string) (expr.Callable, error) {
	path := filepath.Join(dir, rel+FunctionExt)
	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var root functionFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	want := filepath.Base(rel)
	var block *functionBlock
	for _, fb := range root.Functions {
		if fb.Name == want {
			block = fb
			break
		}
	}
	if block == nil && len(root.Functions) == 1 {
		block = root.Functions[0]
	}
	if block == nil {
		return nil, fmt.Errorf("%s: no function %q among %d definitions", path, want, len(root.Functions))
	}
	return newFunction(block)
}

// Function is a numeric function whose body is an HCL expression over its
// named arguments.
type Function struct {
	id   uint64
	name string
	args []string
	body hcl.Expression
}

func newFunction(b *functionBlock) (*Function, error) {
	seen := make(map[string]bool, len(b.Arguments))
	for _, a := range b.Arguments {
		if !hclIdentifier(a) {
			return nil, fmt.Errorf("function %q: %q is not a valid argument name", b.Name, a)
		}
		if seen[a] {
			return nil, fmt.Errorf("function %q: duplicate argument %q", b.Name, a)
		}
		seen[a] = true
	}
	for _, tr := range b.Body.Variables() {
		if !seen[tr.RootName()] {
			return nil, fmt.Errorf("%s: function %q refers to unknown argument %q", tr.SourceRange(), b.Name, tr.RootName())
		}
	}
	return &Function{id: expr.NewIdentity(), name: b.Name, args: b.Arguments, body: b.Body}, nil
}

func (f *Function) Name() string { return f.name }

// Identity is distinct per loaded file, so same-named functions from
// different directories never share node IDs.
func (f *Function) Identity() uint64 { return f.id }

// Arguments returns the argument names in call order.
func (f *Function) Arguments() []string { return f.args }

func (f *Function) Call(args ...float64) (float64, error) {
	if len(args) != len(f.args) {
		return 0, fmt.Errorf("%s: expected %d arguments, got %d", f.name, len(f.args), len(args))
	}
	vars := make(map[string]cty.Value, len(args))
	for i, name := range f.args {
		vars[name] = cty.NumberFloatVal(args[i])
	}
	val, diags := f.body.Value(evalContext(vars))
	if diags.HasErrors() {
		return 0, fmt.Errorf("%s: %w", f.name, diags)
	}
	v, err := numberVal(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f.name, err)
	}
	return v, nil
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, "-")
}
