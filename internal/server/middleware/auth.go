// Package middleware holds the gin middleware of the REST API.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/edgard/counsellor/internal/logger"
)

var errMissingToken = errors.New("missing or invalid token")

// Auth verifies HS256 bearer tokens. The token subject is the opaque user
// identifier used for every profile and conversation lookup. Token issuance
// lives outside this service.
type Auth struct {
	secret []byte
	log    *slog.Logger
}

// NewAuth creates the middleware with the shared signing secret.
func NewAuth(secret string, log *slog.Logger) *Auth {
	return &Auth{secret: []byte(secret), log: log.With("middleware", "auth")}
}

// RequireAuth rejects requests without a valid token.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, errMissingToken)
			return
		}

		userID, err := a.subject(tokenString)
		if err != nil {
			a.log.DebugContext(c.Request.Context(), "Rejected token", "error", err)
			abortUnauthorized(c, err)
			return
		}

		c.Set(logger.UserIDKey, userID)
		c.Next()
	}
}

func (a *Auth) subject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// UserID returns the authenticated caller set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(logger.UserIDKey)
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": err.Error(), "code": "unauthorized"},
	})
}
