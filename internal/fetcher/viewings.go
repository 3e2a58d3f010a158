package fetcher

import (
	"context"

	"github.com/reelmates/reelsync/internal/normalize"
)

func (c *Client) FetchViewings(ctx context.Context) ([]normalize.Viewing, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/viewings")
	if err != nil {
		return nil, err
	}
	return normalize.DecodeViewings(raw), nil
}
