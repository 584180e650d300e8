package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tickethub/backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

// generateJWT mints a session token carrying the session id and role.
func (h *Handler) generateJWT(sessionID string, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"is_admin":   isAdmin,
		"exp":        time.Now().Add(config.SessionTokenTTL).Unix(),
		"iss":        "tickethub-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// GetSession creates a fresh session id and returns a JWT for it. The id
// identifies one browser client instance and survives reconnects of the
// same tab, but not a new page load.
func (h *Handler) GetSession(c *gin.Context) {
	sessionUUID, _ := uuid.NewRandom()
	sessionID := sessionUUID.String()

	isAdmin := c.Query("role") == "admin"

	token, err := h.generateJWT(sessionID, isAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "session_id": sessionID})
}

// validateAndGetSession parses a session token and returns its session id
// and role.
func (h *Handler) validateAndGetSession(tokenString string) (string, bool, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, errors.New("invalid claims")
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", false, errors.New("missing session_id claim")
	}
	isAdmin, _ := claims["is_admin"].(bool)
	return sessionID, isAdmin, nil
}

// bearerToken extracts the token from an Authorization header or, for
// websocket upgrades where headers are awkward to set from a browser, a
// "token" query parameter.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}
