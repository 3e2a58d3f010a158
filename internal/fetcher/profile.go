package fetcher

import (
	"context"
	"net/http"

	"github.com/reelmates/reelsync/internal/normalize"
)

// ProfileUpdate carries the fields a profile save submits. Empty Avatar means
// the avatar is unchanged.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatarUrl,omitempty"`
}

func (c *Client) FetchProfile(ctx context.Context) (normalize.Profile, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/me")
	if err != nil {
		return normalize.Profile{}, err
	}
	return normalize.DecodeProfile(raw), nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (normalize.Profile, error) {
	raw, err := c.do(ctx, http.MethodPatch, c.baseURL+"/me", update)
	if err != nil {
		return normalize.Profile{}, err
	}
	return normalize.DecodeProfile(raw), nil
}
