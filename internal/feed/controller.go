package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/reelmates/reelsync/internal/normalize"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseEnd
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseEnd:
		return "end"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Page is one fetched slice of a feed-like list. An empty NextCursor marks
// the end of the list.
type Page struct {
	Items      []normalize.Post
	NextCursor string
}

type PageFunc func(ctx context.Context, cursor string, limit int) (Page, error)

// Controller drives cursor-based incremental loading for one screen. Items
// only ever grow within a controller's lifetime, and a response is applied
// only if no newer request has been issued since (sequence check), so a slow
// superseded request can never clobber fresher state.
type Controller struct {
	mu      sync.Mutex
	fetch   PageFunc
	limit   int
	phase   Phase
	items   []normalize.Post
	seen    map[string]struct{}
	cursor  string
	hasMore bool
	seq     uint64
	closed  bool
}

func NewController(fetch PageFunc, limit int) *Controller {
	return &Controller{
		fetch: fetch,
		limit: limit,
		phase: PhaseIdle,
		seen:  map[string]struct{}{},
	}
}

// LoadInitial fetches the first page, replacing any previous items. Permitted
// from Idle and Error, and from Loading as a superseding call; the older
// request's response is then discarded. Calls in other phases are no-ops.
func (c *Controller) LoadInitial(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	switch c.phase {
	case PhaseIdle, PhaseError, PhaseLoading:
	default:
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseLoading
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	page, err := c.fetch(ctx, "", c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		return nil
	}
	if err != nil {
		c.phase = PhaseError
		c.items = nil
		c.seen = map[string]struct{}{}
		c.cursor = ""
		c.hasMore = false
		return fmt.Errorf("feed: initial load failed: %w", err)
	}

	c.items = make([]normalize.Post, 0, len(page.Items))
	c.seen = make(map[string]struct{}, len(page.Items))
	c.appendLocked(page.Items)
	c.advanceLocked(page.NextCursor)
	return nil
}

// LoadMore fetches the next page and appends it. It is a deliberate no-op
// (not an error) unless the controller sits in Ready with a cursor in hand;
// overlapping scroll triggers collapse into one request that way. A failed
// fetch returns the controller to Ready with items intact.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.phase != PhaseReady || !c.hasMore || c.cursor == "" {
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseLoadingMore
	c.seq++
	seq := c.seq
	cursor := c.cursor
	c.mu.Unlock()

	page, err := c.fetch(ctx, cursor, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		return nil
	}
	if err != nil {
		c.phase = PhaseReady
		return fmt.Errorf("feed: load more failed: %w", err)
	}

	c.appendLocked(page.Items)
	c.advanceLocked(page.NextCursor)
	return nil
}

func (c *Controller) appendLocked(items []normalize.Post) {
	for _, item := range items {
		if _, dup := c.seen[item.ID]; dup {
			continue
		}
		c.seen[item.ID] = struct{}{}
		c.items = append(c.items, item)
	}
}

func (c *Controller) advanceLocked(next string) {
	c.cursor = next
	c.hasMore = next != ""
	if c.hasMore {
		c.phase = PhaseReady
	} else {
		c.phase = PhaseEnd
	}
}

// Close marks the owning screen as torn down. In-flight responses are
// discarded on arrival; the underlying requests are not aborted.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) Items() []normalize.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]normalize.Post, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
