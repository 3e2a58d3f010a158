package fetcher

import (
	"context"
	"net/http"

	"github.com/reelmates/reelsync/internal/normalize"
)

func (c *Client) FetchServices(ctx context.Context) ([]normalize.Service, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/api/streaming-services")
	if err != nil {
		return nil, err
	}
	return normalize.DecodeServices(raw), nil
}

func (c *Client) FetchSelectedServices(ctx context.Context) ([]normalize.Service, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/api/users/me/streaming-services")
	if err != nil {
		return nil, err
	}
	return normalize.DecodeServices(raw), nil
}

// UpdateSelectedServices replaces the user's service selection and returns
// the canonical selection echoed by the server.
func (c *Client) UpdateSelectedServices(ctx context.Context, serviceIDs []string) ([]normalize.Service, error) {
	body := map[string][]string{"serviceIds": serviceIDs}
	raw, err := c.do(ctx, http.MethodPut, c.baseURL+"/api/users/me/streaming-services", body)
	if err != nil {
		return nil, err
	}
	return normalize.DecodeServices(raw), nil
}
