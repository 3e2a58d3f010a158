// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/feed"
)

// FeedHandler opens the feed screen: a fresh controller replaces the previous
// one (the old screen's in-flight responses are discarded via Close) and the
// first page loads. A failed initial load is a blocking screen-level error.
func (h *Handler) FeedHandler(c *gin.Context) {
	h.mu.Lock()
	if h.feed != nil {
		h.feed.Close()
	}
	h.feed = feed.NewController(h.pageFunc(), feedPageSize)
	controller := h.feed
	h.mu.Unlock()

	if err := controller.LoadInitial(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   controller.Items(),
		"hasMore": controller.HasMore(),
		"phase":   controller.Phase().String(),
	})
}

// FeedMoreHandler appends the next page. Failures are non-blocking: the
// current items are returned alongside the error message and the caller may
// simply trigger again.
func (h *Handler) FeedMoreHandler(c *gin.Context) {
	h.mu.Lock()
	controller := h.feed
	h.mu.Unlock()

	if controller == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "feed not loaded"})
		return
	}

	payload := gin.H{}
	if err := controller.LoadMore(c.Request.Context()); err != nil {
		payload["error"] = err.Error()
	}

	payload["items"] = controller.Items()
	payload["hasMore"] = controller.HasMore()
	payload["phase"] = controller.Phase().String()
	c.JSON(http.StatusOK, payload)
}
