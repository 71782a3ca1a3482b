package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/userhub/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens         TokenVerifier
	enforceSubject bool
}

// NewAuthMiddleware builds the bearer check. With enforceSubject the
// token's subject must name the account in the path; off by default the
// legacy way, where any valid token reads any profile.
func NewAuthMiddleware(tokens TokenVerifier, enforceSubject bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enforceSubject: enforceSubject}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			// any verification failure is "not authenticated", never a 5xx
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		if m.enforceSubject && claims.Subject != c.Param("id") {
			abortUnauthorized(c, "token does not name this user")
			return
		}

		c.Set(string(CtxAccountID), claims.Subject)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, info string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": "ERROR_UNAUTHORIZED",
		"info":   info,
	})
}

// AccountIDFromContext exposes the authenticated subject without the
// magic key leaking into handlers.
func AccountIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxAccountID))
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
