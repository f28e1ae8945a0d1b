// Package resilience provides fault-tolerance primitives for calls to
// rate-limited AI providers: exponential-backoff retry and a token-bucket
// rate limiter that honours provider back-off requests.
package resilience
