// Package paramfile reads parameter files and numeric data files from disk
// and applies them to a parameter table.
//
// Parameter CSV files have a header row with at least the columns
// "Name [units]" and "Value". Lines starting with '#' and blank lines are
// ignored, as are any further columns. Data files referenced with
// "[data]<rel>" are plain numeric tables of one or two columns separated by
// whitespace or commas.
package paramfile
