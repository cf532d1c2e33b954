package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	pkgAuth "github.com/polkiloo/escrowdesk/internal/pkg/auth"
)

const (
	// AccountContextKey is a gin context key for the session account.
	AccountContextKey = "account"
	authCookieName    = "escrowdesk_session"
)

// Authenticator resolves a session token into the wallet account.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// AuthRequired ensures a wallet session is present before accessing handler.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "wallet not connected")
			return
		}

		account, err := auth.Authenticate(token)
		if err != nil {
			switch {
			case errors.Is(err, pkgAuth.ErrInvalidToken):
				abort(c, http.StatusUnauthorized, "session expired, reconnect wallet")
			case errors.Is(err, domainErrors.ErrWrongNetwork):
				abort(c, http.StatusUnauthorized, "session bound to another network, reconnect wallet")
			default:
				abort(c, http.StatusInternalServerError, "session check failed")
			}
			return
		}

		c.Set(AccountContextKey, account)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes session token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
