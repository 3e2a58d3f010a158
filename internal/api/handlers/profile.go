// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/catalog"
	"github.com/reelmates/reelsync/internal/normalize"
	"github.com/reelmates/reelsync/internal/profile"
)

// ensureCatalog folds the latest server catalog into the known one. Known
// entries survive a flaky fetch; the catalog only ever grows.
func (h *Handler) ensureCatalog(ctx context.Context) ([]normalize.Service, error) {
	incoming, err := h.Client.FetchServices(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		if len(h.catalog) == 0 {
			return nil, err
		}
		return append([]normalize.Service(nil), h.catalog...), nil
	}

	h.catalog = catalog.Merge(h.catalog, incoming)
	if h.reconciler != nil {
		h.reconciler.SetCatalog(h.catalog)
	}
	return append([]normalize.Service(nil), h.catalog...), nil
}

func (h *Handler) ensureReconciler(ctx context.Context) (*profile.Reconciler, error) {
	h.mu.Lock()
	if h.reconciler != nil {
		r := h.reconciler
		h.mu.Unlock()
		return r, nil
	}
	h.mu.Unlock()

	current, err := h.Client.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	selection, err := h.Client.FetchSelectedServices(ctx)
	if err != nil {
		return nil, err
	}
	services, err := h.ensureCatalog(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reconciler == nil {
		h.reconciler = profile.NewReconciler(h.Client, current, selection, services)
	}
	return h.reconciler, nil
}

func (h *Handler) ProfileHandler(c *gin.Context) {
	r, err := h.ensureReconciler(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   r.Canonical(),
		"draft":     r.Draft(),
		"selection": r.Selection(),
		"phase":     r.Phase().String(),
		"dirty":     r.Dirty(),
	})
}

func (h *Handler) ProfileSaveHandler(c *gin.Context) {
	var body struct {
		Name               string   `json:"name"`
		Username           string   `json:"username"`
		AvatarData         string   `json:"avatarData"`
		SelectedServiceIDs []string `json:"selectedServiceIds"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	r, err := h.ensureReconciler(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	r.SetName(body.Name)
	r.SetUsername(body.Username)

	if body.AvatarData != "" {
		raw, err := base64.StdEncoding.DecodeString(body.AvatarData)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": gin.H{"avatar": "avatar must be base64-encoded"}})
			return
		}
		if err := r.SetAvatar(raw); err != nil {
			var fields profile.ValidationErrors
			if errors.As(err, &fields) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": fields})
				return
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	if body.SelectedServiceIDs != nil {
		applySelection(r, body.SelectedServiceIDs)
	}

	if err := r.Save(c.Request.Context()); err != nil {
		var fields profile.ValidationErrors
		var saveErr *profile.SaveError
		switch {
		case errors.As(err, &fields):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": fields})
		case errors.As(err, &saveErr):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":          saveErr.Error(),
				"profileFailed":  saveErr.Profile != nil,
				"servicesFailed": saveErr.Services != nil,
			})
		default:
			h.writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   r.Canonical(),
		"selection": r.Selection(),
		"phase":     r.Phase().String(),
	})
}

// applySelection reduces a wholesale selection replacement to toggles so the
// draft keeps its catalog ordering rules.
func applySelection(r *profile.Reconciler, want []string) {
	wanted := make(map[string]struct{}, len(want))
	for _, id := range want {
		wanted[id] = struct{}{}
	}

	for _, id := range r.Draft().SelectedServiceIDs {
		if _, keep := wanted[id]; !keep {
			r.ToggleService(id)
		} else {
			delete(wanted, id)
		}
	}
	for _, id := range want {
		if _, add := wanted[id]; add {
			r.ToggleService(id)
			delete(wanted, id)
		}
	}
}
