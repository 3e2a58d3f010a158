// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CircleHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	circle, err := h.Client.FetchCircle(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	posts, err := h.Client.FetchCirclePosts(ctx, id, 1, feedPageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"circle": circle,
		"posts":  posts,
	})
}

func (h *Handler) JoinCircleHandler(c *gin.Context) {
	var body struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.InviteCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inviteCode is required"})
		return
	}

	if err := h.Client.JoinCircle(c.Request.Context(), c.Param("id"), body.InviteCode); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"joined": true})
}
