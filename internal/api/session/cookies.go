// Package session manages the transport artifacts of a session: the access
// and refresh token cookies. One Config drives both setting and clearing, so
// the two paths can never drift apart in attributes.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/video-platform/internal/core/ports"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// Config holds the cookie attributes shared by set and clear.
type Config struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetPair writes both token cookies. HttpOnly keeps them out of page scripts;
// Secure restricts them to encrypted transport. SameSite=None (which requires
// Secure) allows cross-site frontends; without Secure we fall back to Lax.
func (cfg Config) SetPair(c echo.Context, pair ports.TokenPair) {
	c.SetCookie(cfg.cookie(AccessCookie, pair.AccessToken, cfg.AccessTTL))
	c.SetCookie(cfg.cookie(RefreshCookie, pair.RefreshToken, cfg.RefreshTTL))
}

// ClearPair is the exact inverse of SetPair: same name, path, domain, and
// flags, with an empty value and an immediate expiry.
func (cfg Config) ClearPair(c echo.Context) {
	c.SetCookie(cfg.expired(AccessCookie))
	c.SetCookie(cfg.expired(RefreshCookie))
}

func (cfg Config) cookie(name, value string, ttl time.Duration) *http.Cookie {
	ck := cfg.base(name)
	ck.Value = value
	ck.MaxAge = int(ttl.Seconds())
	ck.Expires = time.Now().Add(ttl)
	return ck
}

func (cfg Config) expired(name string) *http.Cookie {
	ck := cfg.base(name)
	ck.Value = ""
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	return ck
}

func (cfg Config) base(name string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	}
}
