package middleware

import (
	"net/http"

	"waterpermits/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireAuth guards routes behind a live local session. It only checks the
// principal the session middleware already resolved; it never parses
// cookies itself.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := Principal(c); !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
