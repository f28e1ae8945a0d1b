// Package memory provides in-memory implementations of the storage ports.
// Nothing survives a restart, which makes them suitable for tests and for
// running the API without any durable scan cache.
package memory
