package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeme-client/internal/api/handlers"
	"codeme-client/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, loggedIn := range []bool{true, false} {
		ctrl := gomock.NewController(t)
		tokens := mocks.NewMockTokenReader(ctrl)
		tokens.EXPECT().HasToken().Return(loggedIn)

		router := gin.New()
		router.GET("/health", handlers.NewHealthHandler(tokens, "1.2.3").Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp handlers.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, loggedIn, resp.LoggedIn)
	}
}
