// Package normalisers provides implementations of the Normaliser interface.
// A normaliser reduces fetched policy markup to the plain text that is
// chunked, embedded and summarised.
package normalisers
