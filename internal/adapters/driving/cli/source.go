package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

const (
	fetchTimeout   = 30 * time.Second
	maxSourceBytes = 10 << 20
	fetchUserAgent = "privashield-cli"
)

// fetchClient is replaced in tests.
var fetchClient = &http.Client{Timeout: fetchTimeout}

// readSource returns the page markup for url. With file set the markup is
// read from that path, or from stdin when file is "-"; otherwise url is
// fetched.
func readSource(cmd *cobra.Command, url, file string) (string, error) {
	switch file {
	case "":
		return fetchPage(commandContext(cmd), url)
	case "-":
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxSourceBytes))
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
}

func fetchPage(ctx context.Context, url string) (string, error) {
	logger.Debug("Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := fetchClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(data), nil
}
