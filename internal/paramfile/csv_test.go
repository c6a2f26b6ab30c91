package paramfile_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/symparam/internal/paramfile"
	"github.com/specialistvlad/symparam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"parameters.csv": `
			Name [units],Value,Reference,Notes
			# Electrode geometry
			Negative electrode thickness [m], 1e-4,Marquis 2019,
			,,,

			Negative electrode OCP [V],[function]graphite_ocp,,
			Electrolyte diffusivity [m2.s-1], [data]diffusivity ,,
			Number of electrodes,1
		`,
	})

	params, err := paramfile.ReadCSV(filepath.Join(dir, "parameters.csv"))
	require.NoError(t, err)

	got := map[string]any{}
	for _, p := range params {
		got[p.Name] = p.Value
		assert.Equal(t, dir, p.Dir)
		assert.Positive(t, p.Line)
	}
	want := map[string]any{
		"Negative electrode thickness [m]": 1e-4,
		"Negative electrode OCP [V]":       "[function]graphite_ocp",
		"Electrolyte diffusivity [m2.s-1]": "[data]diffusivity",
		"Number of electrodes":             1.0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "empty", content: "# nothing here", wantErr: "missing header row"},
		{name: "no header", content: "a,b\n1,2", wantErr: "not a parameter file"},
		{name: "no value", content: "Name [units],Value\nx,", wantErr: `parameter "x" has no value`},
		{name: "no name", content: "Name [units],Value\n,3", wantErr: `value "3" has no name`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"p.csv": tc.content})
			_, err := paramfile.ReadCSV(filepath.Join(dir, "p.csv"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCSVLoader_SkipsDataFiles(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"anode/parameters.csv": "Name [units],Value\nA,1",
		"anode/ocp.csv":        "0,1\n1,2",
		"cathode/parameters.csv": `
			Name [units],Value
			B,2
		`,
	})

	set, err := paramfile.NewCSVLoader().Load(testutil.LogContext(t, &testutil.SafeBuffer{}), dir)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, "A", set.Parameters[0].Name)
	assert.Equal(t, filepath.Join(dir, "anode"), set.Parameters[0].Dir)
	assert.Equal(t, "B", set.Parameters[1].Name)
}

func TestDataLoader(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"data/ocv.csv": `
			# stoichiometry, voltage
			0.0, 4.2
			0.5  3.8
			1.0	3.0
		`,
		"bad.csv": "1,x",
		"ragged.csv": "1,2\n3",
	})

	tab, err := paramfile.DataLoader{}.LoadData(dir, "data/ocv")
	require.NoError(t, err)
	assert.Equal(t, "data/ocv", tab.Label)
	assert.Equal(t, []float64{0, 0.5, 1}, tab.X)
	assert.Equal(t, []float64{4.2, 3.8, 3.0}, tab.Y)

	_, err = paramfile.DataLoader{}.LoadData(dir, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x" is not a number`)

	_, err = paramfile.DataLoader{}.LoadData(dir, "ragged")
	require.Error(t, err)

	_, err = paramfile.DataLoader{}.LoadData(dir, "missing")
	require.Error(t, err)
}
