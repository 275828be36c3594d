package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"absensi/constants"
	"absensi/middleware"
	"absensi/services"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketFeedRequiresAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenManager("ws-secret", time.Hour)
	userToken, err := tokens.GenerateToken(services.UserInfo{UserId: 1, Role: constants.RoleUser})
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken(services.UserInfo{UserId: 2, Role: constants.RoleAdmin})
	require.NoError(t, err)

	router := gin.New()
	InitWebSocket(router, melody.New(), middleware.AuthMiddleware(tokens, constants.RoleAdmin))

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, get(""))
	assert.Equal(t, http.StatusForbidden, get(userToken))

	// An admin reaches the hub; a plain GET then fails the websocket handshake.
	code := get(adminToken)
	assert.NotEqual(t, http.StatusUnauthorized, code)
	assert.NotEqual(t, http.StatusForbidden, code)
}
