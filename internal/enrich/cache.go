package enrich

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reelmates/reelsync/internal/normalize"
)

// Metadata is what the external provider can contribute to a record: display
// fields only, either of which may be empty.
type Metadata struct {
	Title     string
	PosterURL string
}

type LookupFunc func(ctx context.Context, mediaType, externalID string) (title, posterURL string, err error)

// Cache memoizes title-metadata lookups for the life of the process. Entries
// are never evicted or invalidated; provider metadata for a given title is
// treated as immutable. Failed lookups are not stored, so the next caller
// retries.
type Cache struct {
	lookup  LookupFunc
	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]Metadata
}

func NewCache(lookup LookupFunc) *Cache {
	return &Cache{
		lookup:  lookup,
		entries: map[string]Metadata{},
	}
}

func cacheKey(mediaType normalize.MediaType, externalID string) string {
	return string(mediaType) + ":" + externalID
}

// Lookup returns cached metadata for the key or performs the provider call.
// Concurrent callers for the same key share one underlying request; distinct
// keys proceed independently.
func (c *Cache) Lookup(ctx context.Context, mediaType normalize.MediaType, externalID string) (Metadata, error) {
	key := cacheKey(mediaType, externalID)

	c.mu.Lock()
	if meta, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return meta, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		title, posterURL, err := c.lookup(ctx, string(mediaType), externalID)
		if err != nil {
			return nil, err
		}
		meta := Metadata{Title: title, PosterURL: posterURL}
		c.mu.Lock()
		c.entries[key] = meta
		c.mu.Unlock()
		return meta, nil
	})
	if err != nil {
		return Metadata{}, err
	}
	return v.(Metadata), nil
}

// Apply fills a viewing's missing display fields. Fields already present on
// the record are never overwritten, and lookup failures leave the record as
// it was; enrichment is strictly best-effort.
func (c *Cache) Apply(ctx context.Context, v *normalize.Viewing) {
	if v.ExternalID == "" || v.MediaType == normalize.MediaUnknown {
		return
	}
	if v.Title != "" && v.PosterURL != "" {
		return
	}

	meta, err := c.Lookup(ctx, v.MediaType, v.ExternalID)
	if err != nil {
		return
	}
	if v.Title == "" {
		v.Title = meta.Title
	}
	if v.PosterURL == "" {
		v.PosterURL = meta.PosterURL
	}
}

// Len reports how many titles have been memoized. Used by the status surface.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
