package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotConfigured signals that no directory API token is present. Callers
// treat it as "directory disabled" rather than a hard failure.
var ErrNotConfigured = errors.New("crm: api token not configured")

// Client reads person and organization records from the contact directory.
type Client interface {
	SearchPersons(ctx context.Context, term string, limit int) ([]Record, error)
	GetPerson(ctx context.Context, id int64) (Record, error)
	GetOrganization(ctx context.Context, id int64) (Record, error)
}

// HTTPClient talks to a Pipedrive-compatible v1 REST API. Requests are all
// reads, so transient failures are retried with backoff.
type HTTPClient struct {
	baseURL     string
	apiToken    string
	client      *http.Client
	maxAttempts int
	baseBackoff time.Duration
}

// NewHTTPClient builds a directory client. An empty token is allowed; calls
// will then return ErrNotConfigured.
func NewHTTPClient(baseURL, apiToken string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:     baseURL,
		apiToken:    apiToken,
		client:      &http.Client{Timeout: timeout},
		maxAttempts: 3,
		baseBackoff: 200 * time.Millisecond,
	}
}

// Configured reports whether an API token is present.
func (c *HTTPClient) Configured() bool { return c.apiToken != "" }

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiToken == "" {
		return ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiToken)

	u := c.baseURL + path + "?" + params.Encode()

	attempts := c.maxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := c.baseBackoff * time.Duration(1<<(attempt-2))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		done, err := c.getOnce(ctx, u, path, out)
		if done {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// getOnce performs a single request. done is false only for failures worth
// retrying: transport errors and 5xx responses.
func (c *HTTPClient) getOnce(ctx context.Context, u, path string, out any) (done bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return true, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("crm: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return false, fmt.Errorf("crm: request %s: unexpected status %d", path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return true, fmt.Errorf("crm: request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return true, fmt.Errorf("crm: decode %s: %w", path, err)
	}
	return true, nil
}

// SearchPersons runs a name/email search and returns the matching person
// records in API order.
func (c *HTTPClient) SearchPersons(ctx context.Context, term string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("term", term)
	params.Set("fields", "name,email")
	params.Set("exact_match", "false")
	params.Set("limit", strconv.Itoa(limit))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Items []struct {
				Item Record `json:"item"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/persons/search", params, &body); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(body.Data.Items))
	for _, it := range body.Data.Items {
		if it.Item != nil {
			records = append(records, it.Item)
		}
	}
	return records, nil
}

// GetPerson fetches the full person record by its numeric id.
func (c *HTTPClient) GetPerson(ctx context.Context, id int64) (Record, error) {
	var body struct {
		Success bool   `json:"success"`
		Data    Record `json:"data"`
	}
	if err := c.get(ctx, "/persons/"+strconv.FormatInt(id, 10), nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// GetOrganization fetches the full organization record by its numeric id.
func (c *HTTPClient) GetOrganization(ctx context.Context, id int64) (Record, error) {
	var body struct {
		Success bool   `json:"success"`
		Data    Record `json:"data"`
	}
	if err := c.get(ctx, "/organizations/"+strconv.FormatInt(id, 10), nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}
