// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline is split across four services:
//
//   - IngestService: normalise, chunk, embed, build and persist an index,
//     then summarise (or reuse a cached summary)
//   - RetrievalService: query expansion, concurrent multi-query retrieval,
//     deduplication and grounded answering
//   - AnalysisService: structured risk, permission and hidden clause reports
//     parsed with ExtractJSON
//   - ScanService: the scan cache state machine (absent, indexed, stale)
//     around ingestion and retrieval
//
// Services hold no global state; every capability is injected.
package services
