// Package domain defines the core business entities for PrivaShield.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fingerprint: The cache and storage key derived from a policy URL
//   - Chunk: An overlapping text segment of a normalised policy
//   - IndexEntry / Hit: Embedded chunks and similarity matches
//   - ScanRecord / ScanState: Cached metadata for one analysed policy
//   - Report: Structured output of the risk, permission and clause analyses
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
