package fetcher

import (
	"context"
	"fmt"
	"net/url"

	"github.com/reelmates/reelsync/internal/normalize"
)

// FetchFeedPage loads one page of the aggregated feed. An empty cursor asks
// for the first page. The returned cursor is empty when the feed is
// exhausted.
func (c *Client) FetchFeedPage(ctx context.Context, cursor string, limit int) ([]normalize.Post, string, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	raw, err := c.getJSON(ctx, c.baseURL+"/feed?"+q.Encode())
	if err != nil {
		return nil, "", err
	}

	return normalize.DecodePosts(raw), nextCursor(raw), nil
}

// nextCursor digs the continuation token out of a page envelope. Bare-array
// responses carry no cursor and end pagination.
func nextCursor(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	cursor, _ := obj["nextCursor"].(string)
	return cursor
}
