package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/symparam/internal/paramstore"
	"github.com/specialistvlad/symparam/internal/sweep"
	"github.com/specialistvlad/symparam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const decayModel = `
	name = "decay"

	variable "c" {}

	rhs "c" {
	  value = -param["k"] * c
	}
	initial_condition "c" {
	  value = param["c0"]
	}

	output "Initial" {
	  value = param["c0"] * 2
	}
	output "Decay" {
	  value = param["k"] * c
	}
	output "Current" {
	  value = param["Typical current [A]"]
	}
`

func writeProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"model/decay.hcl": decayModel,
		"params/cell.csv": `
			Name [units],Value
			Cell capacity [A.h],2
			C-rate,1
		`,
		"params/kinetics.hcl": `
			parameter "k" { value = 0.5 }
			parameter "c0" { value = 3 }
		`,
	})
}

// runApp runs an App and returns its output as fields per line.
func runApp(t *testing.T, cfg Config) [][]string {
	t.Helper()
	cfg.LogLevel = "warn"
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	buf := &testutil.SafeBuffer{}
	a, err := NewApp(buf, config)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	return buf.Fields()
}

func TestApp_Run(t *testing.T) {
	root := writeProject(t)
	lines := runApp(t, Config{
		ModelPath:  filepath.Join(root, "model"),
		ParamPaths: []string{filepath.Join(root, "params")},
	})

	assert.Equal(t, [][]string{
		{"Initial", "6"},
		{"Decay", "(0.5", "*", "c)"},
		{"Current", "2"},
	}, lines)
}

func TestApp_Sweep(t *testing.T) {
	root := writeProject(t)
	plot := filepath.Join(root, "sweep.png")
	lines := runApp(t, Config{
		ModelPath:  filepath.Join(root, "model"),
		ParamPaths: []string{filepath.Join(root, "params")},
		Sweep:      &sweep.Spec{Parameter: "C-rate", Values: []float64{0.5, 2}},
		PlotPath:   plot,
	})

	require.Len(t, lines, 6)
	assert.Equal(t, []string{"C-rate", "Initial", "Decay", "Current"}, lines[3])
	assert.Equal(t, []string{"0.5", "6", "-", "1"}, lines[4])
	assert.Equal(t, []string{"2", "6", "-", "4"}, lines[5])
	assert.FileExists(t, plot)
}

func TestApp_SaveAndLoadSet(t *testing.T) {
	root := writeProject(t)
	store := filepath.Join(root, "params.db")

	saved := runApp(t, Config{
		ModelPath:  filepath.Join(root, "model"),
		ParamPaths: []string{filepath.Join(root, "params")},
		StorePath:  store,
		SaveSet:    "decay-1C",
	})
	loaded := runApp(t, Config{
		ModelPath: filepath.Join(root, "model"),
		StorePath: store,
		LoadSet:   "decay-1C",
	})
	assert.Equal(t, saved, loaded)
}

func TestApp_InMemorySets(t *testing.T) {
	root := writeProject(t)
	ctx := context.Background()

	saveCfg, err := NewConfig(Config{
		ModelPath:  filepath.Join(root, "model"),
		ParamPaths: []string{filepath.Join(root, "params")},
		SaveSet:    "decay-1C",
		LogLevel:   "warn",
	})
	require.NoError(t, err)
	saveBuf := &testutil.SafeBuffer{}
	saver, err := NewApp(saveBuf, saveCfg)
	require.NoError(t, err)
	require.NoError(t, saver.Run(ctx))

	names, err := saver.Sets().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"decay-1C"}, names)
	records, err := saver.Sets().Load(ctx, "decay-1C")
	require.NoError(t, err)
	assert.Len(t, records, saver.Table().Len())

	loadCfg, err := NewConfig(Config{
		ModelPath: filepath.Join(root, "model"),
		LoadSet:   "decay-1C",
		LogLevel:  "warn",
	})
	require.NoError(t, err)
	loadBuf := &testutil.SafeBuffer{}
	loader, err := NewApp(loadBuf, loadCfg)
	require.NoError(t, err)
	loader.sets = saver.Sets()
	require.NoError(t, loader.Run(ctx))
	assert.Equal(t, saveBuf.Fields(), loadBuf.Fields())

	missing, err := NewApp(&testutil.SafeBuffer{}, loadCfg)
	require.NoError(t, err)
	err = missing.Run(ctx)
	require.ErrorIs(t, err, paramstore.ErrSetNotFound)
}

func TestApp_Errors(t *testing.T) {
	root := writeProject(t)

	config, err := NewConfig(Config{
		ModelPath: filepath.Join(root, "model"),
		LogLevel:  "error",
	})
	require.NoError(t, err)
	a, err := NewApp(&testutil.SafeBuffer{}, config)
	require.NoError(t, err)
	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to assemble model")

	config, err = NewConfig(Config{
		ModelPath: filepath.Join(root, "model"),
		StorePath: filepath.Join(root, "params.db"),
		LoadSet:   "missing",
		LogLevel:  "error",
	})
	require.NoError(t, err)
	a, err = NewApp(&testutil.SafeBuffer{}, config)
	require.NoError(t, err)
	require.Error(t, a.Run(context.Background()))
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)

	cfg, err := NewConfig(Config{ModelPath: "m", SaveSet: "x"})
	require.NoError(t, err, "sets are kept in memory without a store path")
	assert.Empty(t, cfg.StorePath)

	_, err = NewConfig(Config{ModelPath: "m", PlotPath: "p.png"})
	require.Error(t, err)

	cfg, err = NewConfig(Config{ModelPath: "m", StorePath: "s.db", LoadSet: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.LoadSet)
}
