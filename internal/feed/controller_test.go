package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmates/reelsync/internal/normalize"
)

func makePosts(prefix string, n int) []normalize.Post {
	posts := make([]normalize.Post, n)
	for i := range posts {
		posts[i] = normalize.Post{ID: fmt.Sprintf("%s%d", prefix, i)}
	}
	return posts
}

func TestLoadInitialThenLoadMore(t *testing.T) {
	pages := map[string]Page{
		"":   {Items: makePosts("a", 20), NextCursor: "c1"},
		"c1": {Items: makePosts("b", 5), NextCursor: ""},
	}
	var gotLimit int
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		gotLimit = limit
		return pages[cursor], nil
	}, 20)

	require.NoError(t, ctrl.LoadInitial(context.Background()))
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 20, ctrl.Len())
	assert.Equal(t, PhaseReady, ctrl.Phase())
	assert.True(t, ctrl.HasMore())

	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Equal(t, 25, ctrl.Len())
	assert.Equal(t, PhaseEnd, ctrl.Phase())
	assert.False(t, ctrl.HasMore())

	seen := map[string]struct{}{}
	for _, item := range ctrl.Items() {
		_, dup := seen[item.ID]
		require.False(t, dup, "duplicate id %s", item.ID)
		seen[item.ID] = struct{}{}
	}

	// Exhausted: further load-more calls are no-ops.
	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Equal(t, 25, ctrl.Len())
}

func TestLoadMoreSkipsDuplicateIDs(t *testing.T) {
	pages := map[string]Page{
		"":   {Items: makePosts("a", 3), NextCursor: "c1"},
		"c1": {Items: append(makePosts("a", 2), makePosts("b", 2)...), NextCursor: ""},
	}
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		return pages[cursor], nil
	}, 10)

	require.NoError(t, ctrl.LoadInitial(context.Background()))
	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Equal(t, 5, ctrl.Len())
}

func TestLoadMoreNoOpWhileLoadingMore(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if cursor == "" {
			return Page{Items: makePosts("a", 2), NextCursor: "c1"}, nil
		}
		if n == 2 {
			close(entered)
			<-release
		}
		return Page{Items: makePosts("b", 2), NextCursor: ""}, nil
	}, 10)

	require.NoError(t, ctrl.LoadInitial(context.Background()))

	done := make(chan error, 1)
	go func() { done <- ctrl.LoadMore(context.Background()) }()
	<-entered

	// Second trigger while the first is still in flight: silent no-op.
	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Equal(t, 2, ctrl.Len())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 4, ctrl.Len())

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestStaleInitialResponseIsDiscarded(t *testing.T) {
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls int
	var mu sync.Mutex

	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstEntered)
			<-releaseFirst
			return Page{Items: makePosts("old", 3), NextCursor: "stale"}, nil
		}
		return Page{Items: makePosts("new", 2), NextCursor: ""}, nil
	}, 10)

	firstDone := make(chan error, 1)
	go func() { firstDone <- ctrl.LoadInitial(context.Background()) }()
	<-firstEntered

	// Second call supersedes the first and completes immediately.
	require.NoError(t, ctrl.LoadInitial(context.Background()))
	assert.Equal(t, 2, ctrl.Len())
	assert.Equal(t, PhaseEnd, ctrl.Phase())

	// The superseded response arrives late and must change nothing.
	close(releaseFirst)
	require.NoError(t, <-firstDone)

	items := ctrl.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "new0", items[0].ID)
	assert.Equal(t, PhaseEnd, ctrl.Phase())
}

func TestLoadMoreFailureIsNonFatal(t *testing.T) {
	fail := true
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		if cursor == "" {
			return Page{Items: makePosts("a", 4), NextCursor: "c1"}, nil
		}
		if fail {
			return Page{}, errors.New("boom")
		}
		return Page{Items: makePosts("b", 4), NextCursor: ""}, nil
	}, 10)

	require.NoError(t, ctrl.LoadInitial(context.Background()))
	require.Error(t, ctrl.LoadMore(context.Background()))

	// Existing items survive and the controller is ready to retry.
	assert.Equal(t, 4, ctrl.Len())
	assert.Equal(t, PhaseReady, ctrl.Phase())

	fail = false
	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Equal(t, 8, ctrl.Len())
}

func TestLoadInitialFailureBlocksAndRetries(t *testing.T) {
	fail := true
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		if fail {
			return Page{}, errors.New("boom")
		}
		return Page{Items: makePosts("a", 1), NextCursor: ""}, nil
	}, 10)

	require.Error(t, ctrl.LoadInitial(context.Background()))
	assert.Equal(t, PhaseError, ctrl.Phase())
	assert.Equal(t, 0, ctrl.Len())

	fail = false
	require.NoError(t, ctrl.LoadInitial(context.Background()))
	assert.Equal(t, 1, ctrl.Len())
}

func TestClosedControllerDiscardsResults(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		close(entered)
		<-release
		return Page{Items: makePosts("a", 3), NextCursor: ""}, nil
	}, 10)

	done := make(chan error, 1)
	go func() { done <- ctrl.LoadInitial(context.Background()) }()
	<-entered

	ctrl.Close()
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("LoadInitial did not return")
	}
	assert.Equal(t, 0, ctrl.Len())
	assert.Equal(t, PhaseLoading, ctrl.Phase())
}

func TestLoadInitialNoOpWhenReady(t *testing.T) {
	var calls int
	ctrl := NewController(func(ctx context.Context, cursor string, limit int) (Page, error) {
		calls++
		return Page{Items: makePosts("a", 2), NextCursor: "c1"}, nil
	}, 10)

	require.NoError(t, ctrl.LoadInitial(context.Background()))
	require.NoError(t, ctrl.LoadInitial(context.Background()))
	assert.Equal(t, 1, calls)
}
