// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/config"
)

func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      config.AppVersion,
		"workerActive": h.Worker.IsActive(),
		"titlesCached": h.Cache.Len(),
	})
}
