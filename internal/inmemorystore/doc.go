// Package inmemorystore provides a thread-safe, in-memory implementation
// of the paramstore.Store interface. It is suitable for development, testing,
// or any run where saved parameter sets do not need to outlive the process.
package inmemorystore
