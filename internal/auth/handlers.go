package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRedirect handles GET /auth/login by sending the browser to loginURL
// @Summary Start login
// @Description Redirects to the identity provider login page configured by AUTH_LOGIN_URL
// @Tags authentication
// @Success 302 {string} string "Redirect to the identity provider"
// @Failure 404 {object} map[string]interface{} "Login URL not configured"
// @Router /auth/login [get]
func LoginRedirect(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if loginURL == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "login URL is not configured"})
			return
		}
		c.Redirect(http.StatusFound, loginURL)
	}
}

// Landing handles GET /, where a completed callback redirects the browser
// @Summary Login status page
// @Description Tells the user whether the companion holds a bearer token
// @Tags authentication
// @Produce json
// @Success 200 {object} map[string]interface{} "Login status"
// @Router / [get]
func Landing(tokens TokenReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens.HasToken() {
			c.JSON(http.StatusOK, gin.H{
				"logged_in": true,
				"message":   "Logged in to CodeMe. You can close this window.",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"logged_in": false,
			"message":   "Not logged in",
			"login":     "/auth/login",
		})
	}
}

// LogoutHandler handles POST /auth/logout
type LogoutHandler struct {
	state *State
}

// NewLogoutHandler creates a logout handler clearing state
func NewLogoutHandler(state *State) *LogoutHandler {
	return &LogoutHandler{state: state}
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Drops the stored bearer token
// @Tags authentication
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Failure 500 {object} map[string]interface{} "Token could not be removed"
// @Router /auth/logout [post]
func (h *LogoutHandler) Logout(c *gin.Context) {
	if err := h.state.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
