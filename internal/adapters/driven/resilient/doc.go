// Package resilient decorates AI provider adapters with client-side rate
// limiting and bounded retries.
//
// The decorators implement the same driven ports they wrap, so services
// never see the difference. A provider rate-limit rejection pauses every
// caller sharing the limiter for the provider's Retry-After hint.
package resilient
