package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// DiffFetcher retrieves the raw textual diff of a pull request.
type DiffFetcher interface {
	Fetch(ctx context.Context, diffURL string) (string, error)
}

type httpDiffFetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewDiffFetcher creates a DiffFetcher that downloads diffs over HTTP.
// GitHub serves PR diffs from a public URL, so no authentication is attached.
func NewDiffFetcher(client *http.Client, logger *slog.Logger) DiffFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpDiffFetcher{client: client, logger: logger}
}

// Fetch downloads the diff at diffURL and returns it as text.
func (f *httpDiffFetcher) Fetch(ctx context.Context, diffURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, diffURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build diff request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff from %s: %w", diffURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching diff from %s", resp.StatusCode, diffURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read diff body: %w", err)
	}
	return string(body), nil
}
