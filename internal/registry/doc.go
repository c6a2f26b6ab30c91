// Package registry maps the string names used in parameter files to compiled
// Go values.
//
// A parameter value of "[inbuilt class]GetConstantCurrent" is resolved by
// looking up a zero-argument factory registered under "GetConstantCurrent";
// a value of "[function]graphite_ocp" first looks for a Go callable registered
// under "graphite_ocp" before falling back to a function file on disk.
//
// The registry is populated at startup by Modules and then validated, so a
// factory that cannot produce a callable is reported before any model is
// processed.
package registry
