package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/video-platform/internal/api/session"
	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

// IdentityKey is the echo context key under which the guard stores the
// sanitized identity of the caller.
const IdentityKey = "identity"

// IdentityCache is an optional read-through cache for sanitized identities.
// Cache failures are never fatal; the guard falls back to the repository.
type IdentityCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

// Guard verifies the access token and attaches the sanitized identity to the
// request context. The token is taken from the session cookie first, then
// from the Authorization header. The refresh token is never consulted here.
func Guard(issuer ports.TokenIssuer, repo ports.UserRepository, cache IdentityCache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := issuer.VerifyAccess(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := resolveIdentity(c.Request().Context(), claims.UserID, repo, cache)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(IdentityKey, user.Sanitized())
			return next(c)
		}
	}
}

// extractToken prefers the cookie set at login and falls back to a bearer
// header for non-browser clients.
func extractToken(c echo.Context) string {
	if ck, err := c.Cookie(session.AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func resolveIdentity(ctx context.Context, id string, repo ports.UserRepository, cache IdentityCache) (*domain.User, error) {
	if cache != nil {
		if user, err := cache.Get(ctx, id); err == nil && user != nil {
			return user, nil
		}
	}

	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		_ = cache.Set(ctx, user)
	}
	return user, nil
}
