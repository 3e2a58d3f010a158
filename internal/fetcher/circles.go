package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/reelmates/reelsync/internal/normalize"
)

func (c *Client) FetchCircle(ctx context.Context, id string) (normalize.Circle, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/circles/"+url.PathEscape(id))
	if err != nil {
		return normalize.Circle{}, err
	}

	circle, ok := normalize.DecodeCircle(raw)
	if !ok {
		return normalize.Circle{}, &NotFoundError{Status: fmt.Sprintf("circle %s has no identifier", id)}
	}
	return circle, nil
}

// FetchCirclePosts loads one page of a circle's posts. The endpoint answers
// with either an {items} envelope or a bare array depending on server
// version; the normalizer handles both.
func (c *Client) FetchCirclePosts(ctx context.Context, id string, page, limit int) ([]normalize.Post, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))

	raw, err := c.getJSON(ctx, c.baseURL+"/posts/circle/"+url.PathEscape(id)+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return normalize.DecodePosts(raw), nil
}

func (c *Client) JoinCircle(ctx context.Context, id, inviteCode string) error {
	body := map[string]string{"inviteCode": inviteCode}
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/circles/"+url.PathEscape(id)+"/join", body)
	return err
}
