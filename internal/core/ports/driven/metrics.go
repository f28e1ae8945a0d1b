package driven

import "time"

// Metrics records operational measurements of the core pipeline.
type Metrics interface {
	// ObserveIngest records one ingestion and its outcome.
	ObserveIngest(outcome string, chunks int, duration time.Duration)

	// ObserveScanState records the cache state resolved for a request.
	ObserveScanState(state string)

	// ObserveLLMCall records one language-model call by purpose.
	ObserveLLMCall(purpose string, err error, duration time.Duration)

	// ObserveRetrieval records one multi-query retrieval.
	ObserveRetrieval(queries, uniqueChunks int, duration time.Duration)
}
