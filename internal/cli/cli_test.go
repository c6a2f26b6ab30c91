package cli

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/symparam/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"-params", "chem/anode",
		"-params", "chem/cell.csv",
		"-store", "sets.db",
		"-save-set", "marquis",
		"-sweep", "C-rate=0.5,1",
		"-plot", "sweep.png",
		"-log-level", "DEBUG",
		"model",
	}, out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "model", cfg.ModelPath)
	assert.Equal(t, []string{"chem/anode", "chem/cell.csv"}, cfg.ParamPaths)
	assert.Equal(t, "sets.db", cfg.StorePath)
	assert.Equal(t, "marquis", cfg.SaveSet)
	assert.Equal(t, &sweep.Spec{Parameter: "C-rate", Values: []float64{0.5, 1}}, cfg.Sweep)
	assert.Equal(t, "sweep.png", cfg.PlotPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_ModelFlagWins(t *testing.T) {
	cfg, _, err := Parse([]string{"-m", "short", "positional"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "short", cfg.ModelPath)

	cfg, _, err = Parse([]string{"-model", "long", "-m", "short"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "long", cfg.ModelPath)
}

func TestParse_UsageWithoutModel(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown flag", []string{"-nope", "m"}, "flag provided but not defined"},
		{"log format", []string{"-log-format", "xml", "m"}, "invalid log-format"},
		{"log level", []string{"-log-level", "trace", "m"}, "invalid log-level"},
		{"sweep", []string{"-sweep", "C-rate", "m"}, "expected name=v1,v2"},
		{"save without store", []string{"-save-set", "x", "m"}, "requires a store path"},
		{"plot without sweep", []string{"-plot", "p.png", "m"}, "only be drawn for a sweep"},
		{"empty params", []string{"-params", "", "m"}, "must not be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantErr)
		})
	}
}
