package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/platform/auth"
	"github.com/perfectlystyled/service-checkout/internal/platform/response"
)

const (
	subjectKey = "subject"
	roleKey    = "role"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores its claims.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(header[7:]))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry role.
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(roleKey)
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		if got, _ := v.(auth.Role); got != role {
			response.Forbidden(c, "insufficient role")
			return
		}
		c.Next()
	}
}

// GetSubject returns the authenticated subject, if any.
func GetSubject(c *gin.Context) (string, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
