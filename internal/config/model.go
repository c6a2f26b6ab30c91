package config

import (
	"fmt"
)

// Parameter is one named value read from a parameter file. Value is either a
// float64 or a string still to be decoded.
type Parameter struct {
	Name  string
	Value any
	// Dir is the directory encoded values are resolved against.
	Dir string
	// File and Line locate the definition for error messages.
	File string
	Line int
}

func (p *Parameter) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", p.File, p.Line, p.Name)
	}
	return fmt.Sprintf("%s: %s", p.File, p.Name)
}

// ParameterSet is the unified result of loading one or more parameter files.
type ParameterSet struct {
	Parameters []*Parameter
}

// Add appends parameters to the set.
func (s *ParameterSet) Add(params ...*Parameter) {
	s.Parameters = append(s.Parameters, params...)
}

// Merge appends every parameter of other.
func (s *ParameterSet) Merge(other *ParameterSet) {
	if other == nil {
		return
	}
	s.Parameters = append(s.Parameters, other.Parameters...)
}

// Len is the number of parameters in the set.
func (s *ParameterSet) Len() int { return len(s.Parameters) }

// Group is the parameters of a set that resolve against the same directory.
type Group struct {
	Dir    string
	Values map[string]any
}

// Groups splits the set by source directory, in order of first appearance.
// A name defined twice in one directory fails, reporting both locations.
func (s *ParameterSet) Groups() ([]Group, error) {
	var groups []Group
	index := make(map[string]int)
	seen := make(map[string]*Parameter)
	for _, p := range s.Parameters {
		key := p.Dir + "\x00" + p.Name
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("parameter %q defined twice: %s and %s", p.Name, prev, p)
		}
		seen[key] = p

		i, ok := index[p.Dir]
		if !ok {
			i = len(groups)
			index[p.Dir] = i
			groups = append(groups, Group{Dir: p.Dir, Values: make(map[string]any)})
		}
		groups[i].Values[p.Name] = p.Value
	}
	return groups, nil
}
