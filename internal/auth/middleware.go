package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireToken rejects requests with 401 while no bearer token is held.
// Routes behind it call the backend on the user's behalf.
func RequireToken(tokens TokenReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tokens.HasToken() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in", "login": "/auth/login"})
			c.Abort()
			return
		}
		c.Next()
	}
}
