// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/exports"
)

func (h *Handler) ViewingsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	viewings, err := h.Client.FetchViewings(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// Best effort: a record the provider knows nothing about ships without
	// poster or title.
	for i := range viewings {
		h.Cache.Apply(ctx, &viewings[i])
	}

	c.JSON(http.StatusOK, gin.H{"items": viewings})
}

// ExportViewingsHandler downloads the viewing log as CSV.
func (h *Handler) ExportViewingsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	viewings, err := h.Client.FetchViewings(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	for i := range viewings {
		h.Cache.Apply(ctx, &viewings[i])
	}

	filename := fmt.Sprintf("viewings_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv")

	if err := exports.WriteViewingsCSV(c.Writer, viewings); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
