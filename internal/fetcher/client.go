package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Client talks to the sharing service and the title-metadata provider. The
// session credential is fixed at construction and attached to every request;
// nothing in this package reads ambient state.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	metadataURL string
}

func NewClient(baseURL, metadataURL, sessionToken string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}

	if sessionToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sessionToken})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, src)
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		metadataURL: strings.TrimRight(metadataURL, "/"),
	}
}

func (c *Client) getJSON(ctx context.Context, url string) (any, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if err := statusError(resp.StatusCode, resp.Status); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("malformed response body: %w", err)}
	}

	return payload, nil
}
