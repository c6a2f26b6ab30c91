package config_test

import (
	"testing"

	"github.com/specialistvlad/symparam/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSet_Groups(t *testing.T) {
	set := &config.ParameterSet{}
	set.Add(
		&config.Parameter{Name: "a", Value: 1.0, Dir: "/cell"},
		&config.Parameter{Name: "b", Value: "[data]x", Dir: "/anode"},
		&config.Parameter{Name: "c", Value: 3.0, Dir: "/cell"},
	)
	other := &config.ParameterSet{}
	other.Add(&config.Parameter{Name: "a", Value: 2.0, Dir: "/anode"})
	set.Merge(other)
	set.Merge(nil)
	require.Equal(t, 4, set.Len())

	groups, err := set.Groups()
	require.NoError(t, err)
	assert.Equal(t, []config.Group{
		{Dir: "/cell", Values: map[string]any{"a": 1.0, "c": 3.0}},
		{Dir: "/anode", Values: map[string]any{"b": "[data]x", "a": 2.0}},
	}, groups)
}

func TestParameterSet_GroupsDuplicate(t *testing.T) {
	set := &config.ParameterSet{}
	set.Add(
		&config.Parameter{Name: "a", Value: 1.0, Dir: "/cell", File: "/cell/p.csv", Line: 2},
		&config.Parameter{Name: "a", Value: 1.0, Dir: "/cell", File: "/cell/p.hcl"},
	)

	_, err := set.Groups()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/cell/p.csv:2: a")
	assert.Contains(t, err.Error(), "/cell/p.hcl: a")
}
