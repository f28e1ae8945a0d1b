// Package postgres provides a PostgreSQL-backed implementation of driven.ScanCache
// for deployments where several API replicas share one scan cache.
//
// The processed_sites table is created on open if it does not exist.
package postgres
