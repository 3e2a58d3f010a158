// SPDX-License-Identifier: AGPL-3.0-only
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware gates the local JSON surface behind the UI session. The
// remote credential is never exposed here; the UI session only proves the
// request comes from this device's frontend.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicRoute(c.Request.URL.Path) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if session.Get("ui_session") == nil {
			session.Set("ui_session", true)
			if err := session.Save(); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
				return
			}
		}

		c.Next()
	}
}

func isPublicRoute(path string) bool {
	return path == "/health"
}
