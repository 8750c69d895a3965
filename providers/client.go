package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/gommon/log"
)

// fetchBody performs the single blocking GET a provider run is allowed and
// returns the raw response body. Non-2xx responses become a TransportError
// carrying the body; connection and read failures are wrapped as-is. There
// is no retry: a failed run is abandoned and recovered by the next
// scheduled tick.
func fetchBody(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to contact provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Errorf("provider %s answered %d", endpoint, resp.StatusCode)
		return nil, &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
