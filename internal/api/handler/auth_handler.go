package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/video-platform/internal/api/metrics"
	"github.com/vidtube/video-platform/internal/api/session"
	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	assets      ports.AssetStore
	cookies     session.Config
}

func NewAuthHandler(authService ports.AuthService, assets ports.AssetStore, cookies session.Config) *AuthHandler {
	return &AuthHandler{authService: authService, assets: assets, cookies: cookies}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        username    formData  string  true  "Unique username"
// @Param        email       formData  string  true  "Unique email"
// @Param        password    formData  string  true  "Password"
// @Param        full_name   formData  string  true  "Display name"
// @Param        avatar      formData  file    true  "Avatar image"
// @Param        cover_image formData  file    true  "Cover image"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	start := time.Now()

	var form registerForm
	if err := c.Bind(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "avatar and cover image are required")
	}
	coverFile, err := c.FormFile("cover_image")
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "avatar and cover image are required")
	}

	// Uploads happen before the insert: a failed upload aborts registration
	// and no identity is ever created without its assets.
	avatarURL, err := h.uploadAsset(c, "avatars", avatarFile)
	if err != nil {
		return err
	}
	coverURL, err := h.uploadAsset(c, "covers", coverFile)
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:      form.Username,
		Email:         form.Email,
		Password:      form.Password,
		FullName:      form.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	metrics.AuthOperationDuration.WithLabelValues("register").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusCreated, registerResponse{Status: "created", User: user})
}

// Login authenticates a user and starts a session.
//
// @Summary      Login with email or username
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Either identifier works; requiring both was never the intent.
	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email or username is required")
	}

	result, err := h.authService.Login(c.Request().Context(), identifier, req.Password, c.RealIP())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	h.cookies.SetPair(c, result.TokenPair)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.AuthOperationDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

// Refresh rotates the refresh token into a new session pair.
//
// @Summary      Refresh the session tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when not sent as cookie"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	start := time.Now()

	token := h.refreshTokenFrom(c)
	if token == "" {
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.authService.Refresh(c.Request().Context(), token, c.RealIP())
	if err != nil {
		if errors.Is(err, domain.ErrTokenReused) {
			metrics.TokenRefreshTotal.WithLabelValues("reused").Inc()
			metrics.TokenReuseDetectedTotal.Inc()
		} else {
			metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	h.cookies.SetPair(c, *pair)
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	metrics.AuthOperationDuration.WithLabelValues("refresh").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout ends the active session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), identity.ID, c.RealIP()); err != nil {
		return err
	}

	h.cookies.ClearPair(c)
	return c.JSON(http.StatusOK, logoutResponse{Status: "logged_out"})
}

// refreshTokenFrom reads the refresh token from the session cookie, falling
// back to the request payload.
func (h *AuthHandler) refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(session.RefreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) uploadAsset(c echo.Context, prefix string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.assets.Upload(c.Request().Context(), prefix, contentType, f)
	if err != nil {
		return "", err
	}
	return url, nil
}
