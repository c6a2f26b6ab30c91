// Package callable holds the non-trivial values a parameter table can bind a
// function name to: tabulated data and "current setters", callables that
// carry their own symbolic sub-parameters.
//
// A setter's sub-parameters start out as expression trees (usually Parameter
// leaves such as "Typical current [A]"). The substitution engine rewrites them
// into constants and stores their numeric values in the setter's evaluated
// cache; Call only ever reads that cache.
package callable
