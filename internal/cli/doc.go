// Package cli turns command-line arguments into an app.Config. It owns flag
// parsing, the usage text and the exit code reported for bad input.
package cli
