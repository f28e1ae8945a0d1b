// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Reduces raw policy markup to plain text
//   - Chunker: Splits normalised text into overlapping chunks
//   - EmbeddingService: Maps text to fixed-length vectors
//   - IndexStore: Builds, persists and loads per-fingerprint vector indexes
//   - ScanCache: Scan record persistence keyed by fingerprint
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Without it summaries are error-annotated, query expansion
//     is skipped and answers cannot be generated.
//   - PromptStore: Without it the built-in prompt templates are used.
//   - Metrics: Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
