package auth

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"codeme-client/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	// CallbackPath is the route the identity provider redirects to
	CallbackPath = "/auth/callback"
	// TokenParam is the callback query parameter carrying the bearer token
	TokenParam = "token"
	// RootPath is where a completed callback navigates
	RootPath = "/"
)

// NavigateOptions controls how a navigation is performed
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing a new one
	Replace bool
}

// CallbackHandler completes the login redirect: it captures the token from
// the callback query and navigates back to the application root.
type CallbackHandler struct {
	tokens TokenSetter

	mu        sync.Mutex
	completed bool
	lastQuery string
	lastGen   uint64
}

// generationReader is implemented by token holders that count writes, such
// as State. Without it a repeated query is skipped for the handler's lifetime.
type generationReader interface {
	Generation() uint64
}

func (h *CallbackHandler) generation() uint64 {
	if g, ok := h.tokens.(generationReader); ok {
		return g.Generation()
	}
	return 0
}

// NewCallbackHandler creates a callback handler writing into tokens
func NewCallbackHandler(tokens TokenSetter) *CallbackHandler {
	return &CallbackHandler{tokens: tokens}
}

// Complete runs the callback once for rawQuery. A call repeating the raw
// query of the previous completed call does nothing and returns false,
// unless the token has been replaced or cleared since then.
func (h *CallbackHandler) Complete(ctx context.Context, rawQuery string, nav Navigator) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := logger.WithContext(ctx)

	if h.completed && h.lastQuery == rawQuery && h.lastGen == h.generation() {
		log.Debug("Callback query unchanged, skipping")
		return false
	}
	h.completed = true
	h.lastQuery = rawQuery

	// ParseQuery keeps every well-formed pair even when it reports an error
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		log.WithError(err).Warn("Callback query partially malformed")
	}

	if token := params.Get(TokenParam); token != "" {
		if err := h.tokens.SetToken(token); err != nil {
			log.WithError(err).Warn("Token captured but could not be persisted")
		}
	} else {
		log.Info("Callback without token, continuing to root")
	}
	h.lastGen = h.generation()

	nav.Navigate(RootPath, NavigateOptions{Replace: true})
	return true
}

// redirectNavigator answers the current request with a redirect. A redirect
// response is never kept in history, so every navigation replaces.
type redirectNavigator struct {
	c *gin.Context
}

func (n redirectNavigator) Navigate(path string, _ NavigateOptions) {
	n.c.Redirect(http.StatusSeeOther, path)
}

// HandleCallback handles GET /auth/callback?token=...
// @Summary Complete login redirect
// @Description Stores the bearer token delivered by the identity provider and redirects to the application root.
// @Description A missing token is not an error; the redirect happens either way.
// @Tags authentication
// @Param token query string false "Bearer token issued by the identity provider"
// @Success 303 {string} string "Redirect to /"
// @Router /auth/callback [get]
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	// The token travels in the URL; keep it out of caches and Referer headers
	c.Header("Cache-Control", "no-store")
	c.Header("Referrer-Policy", "no-referrer")

	nav := redirectNavigator{c: c}
	if !h.Complete(c, c.Request.URL.RawQuery, nav) {
		nav.Navigate(RootPath, NavigateOptions{Replace: true})
	}
}
