package mcp

import (
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Scan analyses policies and answers questions about them.
	Scan driving.ScanService

	// Analysis produces structured reports. Optional; without it the
	// risk_report tool reports that no language model is configured.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Scan == nil {
		return ErrMissingScanService
	}
	return nil
}
