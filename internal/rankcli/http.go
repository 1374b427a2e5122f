package rankcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/wodboard/internal/domain/types"
)

// maxResponseBytes bounds a single leaderboard response.
const maxResponseBytes = 8 << 20

// HTTPClient fetches leaderboards from a running server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Leaderboard performs GET /leaderboard/{category}.
func (c *HTTPClient) Leaderboard(ctx context.Context, category string) (types.Leaderboard, error) {
	var lb types.Leaderboard
	endpoint := c.baseURL + "/leaderboard/" + url.PathEscape(category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return lb, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return lb, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return lb, fmt.Errorf("%w: read %s: %v", ErrRemote, endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return lb, fmt.Errorf("%w: GET %s: status %d", ErrRemote, endpoint, resp.StatusCode)
	}
	if err := json.Unmarshal(body, &lb); err != nil {
		return lb, fmt.Errorf("%w: decode %s: %v", ErrRemote, endpoint, err)
	}
	return lb, nil
}
