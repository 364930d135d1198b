package middleware

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/httpx"
	"storefront/internal/logging"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = logging.UserIDKey
	// TokenCookie is the cookie register and login set for browser clients.
	TokenCookie = "jwt"
)

type userIDKey struct{}

// Authenticator resolves a raw session token to a user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication.
// The token comes from the Authorization header, falling back to the jwt cookie.
func JWTAuthMiddleware(auth Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apperr.CodeOf(err) == apperr.CodeUnauthenticated {
				logger.DebugContext(c.Request.Context(), "guard rejected request", "path", c.Request.URL.Path, "error", err)
			}
			httpx.Abort(c, logger, err)
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		// A malformed header is not rescued by the cookie.
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// WithUserID stores the verified user ID on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user ID set by JWTAuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}
