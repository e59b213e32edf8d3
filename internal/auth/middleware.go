package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth_identity"

// Required guards a route: 403 when no credential is present, 401 when the
// token does not verify. On success the identity is attached to the gin
// context for the handler.
func Required(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No token provided."})
			return
		}
		ident, err := tokens.Verify(BearerToken(header))
		if err != nil {
			log.Printf("[auth] token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Failed to authenticate token."})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// BearerToken extracts the credential from an Authorization header value,
// accepting both a raw token and the "Bearer <token>" form.
func BearerToken(header string) string {
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(header)
}

// FromContext returns the identity attached by Required.
func FromContext(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*Identity)
	return ident, ok
}
