package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/symparam/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_ModelParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A model file with a syntax error fails while loading the model.
	invalidHCL := `
		variable "c" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "model.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"-log-level", "error", filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should fail for an unparsable model")
	require.Contains(t, runErr.Error(), "failed to load model")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_PrintsOutputs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	model := filepath.Join(tempDir, "model.hcl")
	require.NoError(t, os.WriteFile(model, []byte(`
variable "c" {}
rhs "c" {
  value = param["k"] * c
}
output "Rate" {
  value = param["k"] + 1
}
`), 0600))
	params := filepath.Join(tempDir, "params.csv")
	require.NoError(t, os.WriteFile(params, []byte("Name [units],Value\nk,0.25\n"), 0600))

	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"-params", params, "-log-level", "error", model})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Rate  1.25")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A sweep without values is rejected before anything is loaded.
	args := []string{"-sweep", "C-rate", "model.hcl"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "expected name=v1,v2")
}
