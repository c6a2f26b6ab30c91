package hcl_test

import (
	"testing"

	"github.com/specialistvlad/symparam/internal/hcl"
	"github.com/specialistvlad/symparam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionLoader_LoadFunction(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"graphite_ocp.hcl": `
			function "graphite_ocp" {
			  arguments = ["sto"]
			  body      = 0.5 + 2 * sto
			}
		`,
		"shared.hcl": `
			function "diffusivity" {
			  arguments = ["c", "T"]
			  body      = c * exp(0) / T
			}
			function "unused" {
			  arguments = []
			  body      = 1
			}
		`,
		"single.hcl": `
			function "renamed" {
			  arguments = ["x"]
			  body      = pow(x, 2)
			}
		`,
	})
	loader := hcl.NewFunctionLoader()

	fn, err := loader.LoadFunction(dir, "graphite_ocp")
	require.NoError(t, err)
	assert.Equal(t, "graphite_ocp", fn.Name())
	v, err := fn.Call(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	_, err = fn.Call(1, 2)
	require.Error(t, err)

	// The only definition in a file is used whatever it is called.
	fn, err = loader.LoadFunction(dir, "single")
	require.NoError(t, err)
	v, err = fn.Call(3)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, v, 1e-12)

	_, err = loader.LoadFunction(dir, "shared")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no function "shared"`)
}

func TestFunctionLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown argument",
			content: `
				function "f" {
				  arguments = ["x"]
				  body      = x + y
				}
			`,
			wantErr: `unknown argument "y"`,
		},
		{
			name: "duplicate argument",
			content: `
				function "f" {
				  arguments = ["x", "x"]
				  body      = x
				}
			`,
			wantErr: `duplicate argument "x"`,
		},
		{
			name: "invalid argument name",
			content: `
				function "f" {
				  arguments = ["1x"]
				  body      = 1
				}
			`,
			wantErr: "not a valid argument name",
		},
		{
			name: "missing body",
			content: `
				function "f" {
				  arguments = ["x"]
				}
			`,
			wantErr: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"f.hcl": tc.content})
			_, err := hcl.NewFunctionLoader().LoadFunction(dir, "f")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFunction_NonFiniteResult(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"f.hcl": `
			function "f" {
			  arguments = ["x"]
			  body      = log(x)
			}
		`,
	})
	fn, err := hcl.NewFunctionLoader().LoadFunction(dir, "f")
	require.NoError(t, err)

	_, err = fn.Call(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a finite number")
}
