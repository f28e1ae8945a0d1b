// Package provider holds HTTP helpers shared by the AI provider adapters.
package provider

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/resilience"
)

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 512

// CheckStatus converts a non-2xx response into an error.
//
//   - 429 becomes a *domain.RateLimitError carrying the Retry-After hint.
//   - Other 4xx responses are marked permanent; retrying cannot help.
//   - 5xx responses are returned plain so callers may retry.
func CheckStatus(name string, resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.RateLimitError{
			Provider:   name,
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return resilience.Permanent(fmt.Errorf("%s: API returned status %d: %s", name, resp.StatusCode, msg))
	default:
		return fmt.Errorf("%s: API returned status %d: %s", name, resp.StatusCode, msg)
	}
}

// ParseRetryAfter parses a Retry-After header given in seconds or as an
// HTTP date. Unparseable or past values yield zero.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
