// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/config"
	"github.com/reelmates/reelsync/internal/enrich"
	"github.com/reelmates/reelsync/internal/feed"
	"github.com/reelmates/reelsync/internal/fetcher"
	"github.com/reelmates/reelsync/internal/normalize"
	"github.com/reelmates/reelsync/internal/prefs"
	"github.com/reelmates/reelsync/internal/profile"
	"github.com/reelmates/reelsync/internal/worker"
)

const feedPageSize = 20

type Handler struct {
	Client *fetcher.Client
	Cache  *enrich.Cache
	Prefs  *prefs.Store
	Config *config.AppConfig
	Worker *worker.Worker

	mu         sync.Mutex
	feed       *feed.Controller
	catalog    []normalize.Service
	reconciler *profile.Reconciler
}

func NewHandler(client *fetcher.Client, cache *enrich.Cache, store *prefs.Store, cfg *config.AppConfig, w *worker.Worker) *Handler {
	return &Handler{
		Client: client,
		Cache:  cache,
		Prefs:  store,
		Config: cfg,
		Worker: w,
	}
}

func (h *Handler) pageFunc() feed.PageFunc {
	return func(ctx context.Context, cursor string, limit int) (feed.Page, error) {
		items, next, err := h.Client.FetchFeedPage(ctx, cursor, limit)
		if err != nil {
			return feed.Page{}, err
		}
		return feed.Page{Items: items, NextCursor: next}, nil
	}
}

// writeError maps the transport error taxonomy onto the local surface.
func (h *Handler) writeError(c *gin.Context, err error) {
	var authErr *fetcher.AuthError
	var notFound *fetcher.NotFoundError

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
