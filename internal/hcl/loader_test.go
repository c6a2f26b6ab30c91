package hcl_test

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/symparam/internal/hcl"
	"github.com/specialistvlad/symparam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterLoader_Load(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"cell/parameters.hcl": `
			parameter "Ambient temperature [K]" {
			  value       = 298.15
			  description = "Room temperature"
			}
			parameter "Number of cells" {
			  value = 2 * 3
			}
			parameter "Unit" {
			  value = exp(0)
			}
			parameter "Negative electrode OCP [V]" {
			  value = "[function]graphite_ocp"
			}

			function "graphite_ocp" {
			  arguments = ["sto"]
			  body      = 0.5 + 2 * sto
			}
		`,
	})

	buf := &testutil.SafeBuffer{}
	ctx := testutil.LogContext(t, buf)
	set, err := hcl.NewParameterLoader().Load(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	got := map[string]any{}
	for _, p := range set.Parameters {
		got[p.Name] = p.Value
		assert.Equal(t, filepath.Join(dir, "cell"), p.Dir)
		assert.Equal(t, filepath.Join(dir, "cell", "parameters.hcl"), p.File)
		assert.Positive(t, p.Line)
	}
	assert.Equal(t, map[string]any{
		"Ambient temperature [K]":    298.15,
		"Number of cells":            6.0,
		"Unit":                       1.0,
		"Negative electrode OCP [V]": "[function]graphite_ocp",
	}, got)
	testutil.AssertLogged(t, buf, "HCL parameter loading complete.")
}

func TestParameterLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax",
			content: `parameter "a" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing value",
			content: `parameter "a" {}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "list value",
			content: `parameter "a" { value = [1, 2] }`,
			wantErr: `parameter "a"`,
		},
		{
			name:    "unknown function",
			content: `parameter "a" { value = nope(1) }`,
			wantErr: "nope",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"p.hcl": tc.content})
			_, err := hcl.NewParameterLoader().Load(testutil.LogContext(t, &testutil.SafeBuffer{}), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParameterLoader_MissingPath(t *testing.T) {
	_, err := hcl.NewParameterLoader().Load(testutil.LogContext(t, &testutil.SafeBuffer{}), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
