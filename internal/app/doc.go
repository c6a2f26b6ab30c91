// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle: populate a parameter
// table, load a model, substitute it and report its outputs. It is decoupled
// from any specific entrypoint like a CLI.
package app
