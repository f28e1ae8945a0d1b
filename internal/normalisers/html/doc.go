// Package html provides Normaliser implementations for HTML policy pages.
// They strip scripts, styles, navigation chrome and tags, decode entities
// and collapse blank lines so only readable policy text remains.
package html
