package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
)

// ErrMissingScanService is returned when the scan service is not provided.
var ErrMissingScanService = errors.New("httpapi: scan service is required")

// Metrics records served requests and exposes the scrape handler.
type Metrics interface {
	ObserveHTTP(method, path string, status int, duration time.Duration)
	TrackInFlight() func()
	Handler() http.Handler
}

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Scan is required.
	Scan driving.ScanService

	// Analysis serves the report endpoints. Optional; without it they
	// answer 503.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Scan == nil {
		return ErrMissingScanService
	}
	return nil
}
