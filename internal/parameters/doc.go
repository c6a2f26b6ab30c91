// Package parameters implements the parameter table: a name to value store
// that the substitution engine resolves Parameter and FunctionParameter nodes
// against.
//
// Values arrive either as Go values or as strings read from parameter files.
// Strings carry a small encoding:
//
//	"[function]<rel>"       a callable, from the registry or a function file under the source path
//	"[inbuilt class]<Name>" a fresh instance of a registered class
//	"[data]<rel>"           a numeric table loaded from the source path
//	anything else           a float
//
// Every successful change bumps the table's version. Engines that memoize
// substitution results compare versions and drop their caches when the table
// has moved on.
//
// A Table is not safe for concurrent use.
package parameters
