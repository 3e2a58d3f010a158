// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/catalog"
)

func (h *Handler) ServicesHandler(c *gin.Context) {
	services, err := h.ensureCatalog(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	filtered := catalog.Filter(services, c.Query("q"), catalog.DefaultFilterLimit)
	c.JSON(http.StatusOK, gin.H{"items": filtered})
}
