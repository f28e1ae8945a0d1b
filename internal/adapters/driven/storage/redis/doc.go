// Package redis provides a Redis-backed implementation of driven.ScanCache.
//
// Each record is a hash at "<prefix>scan:<fingerprint>". A sorted set at
// "<prefix>scans" scores fingerprints by creation time so List can return
// the newest records first.
package redis
