// Package config defines the format-agnostic representation of parameter
// files, along with the Loader interface that format-specific packages
// implement.
//
// A ParameterSet is what every loader produces, whether it read CSV or HCL.
// The set remembers which directory each value came from, since encoded values
// such as "[data]ocv" are resolved relative to it.
package config
