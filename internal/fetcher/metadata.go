package fetcher

import (
	"context"
	"net/url"
)

// LookupTitle asks the metadata provider for display fields of an external
// title. Either field may come back empty; the provider fails independently
// of the main service.
func (c *Client) LookupTitle(ctx context.Context, mediaType, externalID string) (title, posterURL string, err error) {
	q := url.Values{}
	q.Set("type", mediaType)
	q.Set("id", externalID)

	raw, err := c.getJSON(ctx, c.metadataURL+"/title?"+q.Encode())
	if err != nil {
		return "", "", err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return "", "", nil
	}
	title, _ = obj["title"].(string)
	posterURL, _ = obj["posterUrl"].(string)
	return title, posterURL, nil
}
