// Package flat provides an exact, brute-force vector index persisted as a
// self-contained directory per policy.
//
// Policies are a few hundred chunks at most, so an exhaustive cosine scan is
// both fast enough and exact. The on-disk layout is:
//
//	<root>/<fingerprint>_index/
//	    manifest.json   format version, model, dimensions, chunk texts, checksum
//	    vectors.bin     little-endian float32 vectors, row-major in chunk order
//
// Deleting the directory invalidates the policy's cache.
package flat
