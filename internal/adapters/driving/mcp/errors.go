// Package mcp provides an MCP (Model Context Protocol) server adapter for PrivaShield.
// It lets AI assistants analyse privacy policies and ask grounded questions
// about the ones already analysed.
package mcp

import "errors"

// ErrMissingScanService is returned when the scan service is not provided.
var ErrMissingScanService = errors.New("mcp: scan service is required")
