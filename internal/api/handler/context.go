package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/video-platform/internal/api/middleware"
	"github.com/vidtube/video-platform/internal/core/domain"
)

// ctxIdentity extracts the sanitized identity injected by the access guard.
// Its presence proves the guard ran; a handler registered on a guarded route
// without the middleware is a wiring bug and fails closed with 401.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.User)
	if identity == nil || identity.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
