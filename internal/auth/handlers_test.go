package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeme-client/internal/auth"
	"codeme-client/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLoginRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("configured", func(t *testing.T) {
		router := gin.New()
		router.GET("/auth/login", auth.LoginRedirect("https://codeme.example.com/api/v1/auth/google/login"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://codeme.example.com/api/v1/auth/google/login", w.Header().Get("Location"))
	})

	t.Run("not configured", func(t *testing.T) {
		router := gin.New()
		router.GET("/auth/login", auth.LoginRedirect(""))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLanding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		hasToken bool
	}{
		{"logged in", true},
		{"logged out", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tokens := mocks.NewMockTokenReader(ctrl)
			tokens.EXPECT().HasToken().Return(tt.hasToken)

			router := gin.New()
			router.GET(auth.RootPath, auth.Landing(tokens))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.hasToken, body["logged_in"])
		})
	}
}

func TestLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	state, err := auth.NewState(nil)
	require.NoError(t, err)
	require.NoError(t, state.SetToken("abc"))

	router := gin.New()
	router.POST("/auth/logout", auth.NewLogoutHandler(state).Logout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, state.HasToken())
}

func TestRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tokens := mocks.NewMockTokenReader(ctrl)
		tokens.EXPECT().HasToken().Return(false)

		router := gin.New()
		router.GET("/protected", auth.RequireToken(tokens), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Not logged in", body["error"])
	})

	t.Run("token held", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tokens := mocks.NewMockTokenReader(ctrl)
		tokens.EXPECT().HasToken().Return(true)

		router := gin.New()
		router.GET("/protected", auth.RequireToken(tokens), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
