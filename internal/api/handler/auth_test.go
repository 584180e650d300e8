package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	h := &Handler{JWTSecret: []byte("test-secret")}

	token, err := h.generateJWT("session-123", true)
	require.NoError(t, err)

	sessionID, isAdmin, err := h.validateAndGetSession(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sessionID)
	assert.True(t, isAdmin)
}

func TestSessionTokenWrongSecretRejected(t *testing.T) {
	minter := &Handler{JWTSecret: []byte("test-secret")}
	verifier := &Handler{JWTSecret: []byte("other-secret")}

	token, err := minter.generateJWT("session-123", false)
	require.NoError(t, err)

	_, _, err = verifier.validateAndGetSession(token)
	assert.Error(t, err)
}

func TestSessionTokenGarbageRejected(t *testing.T) {
	h := &Handler{JWTSecret: []byte("test-secret")}

	_, _, err := h.validateAndGetSession("not.a.token")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("from Authorization header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/ws", nil)
		c.Request.Header.Set("Authorization", "Bearer abc123")

		assert.Equal(t, "abc123", bearerToken(c))
	})

	t.Run("from query parameter", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/ws?token=xyz789", nil)

		assert.Equal(t, "xyz789", bearerToken(c))
	})

	t.Run("header wins over query", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/ws?token=fromquery", nil)
		c.Request.Header.Set("Authorization", "Bearer fromheader")

		assert.Equal(t, "fromheader", bearerToken(c))
	})
}
