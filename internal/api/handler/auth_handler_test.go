package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/video-platform/internal/api/middleware"
	"github.com/vidtube/video-platform/internal/api/session"
	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

type stubAuthService struct {
	registerIn  *ports.RegisterInput
	registerErr error

	loginIdentifier string
	loginErr        error

	refreshToken string
	refreshErr   error

	logoutID  string
	logoutErr error
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	s.registerIn = &in
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{
		ID:            "user_1",
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		AvatarURL:     in.AvatarURL,
		CoverImageURL: in.CoverImageURL,
	}, nil
}

func (s *stubAuthService) Login(_ context.Context, identifier, _, _ string) (*ports.LoginResult, error) {
	s.loginIdentifier = identifier
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &ports.LoginResult{
		TokenPair: ports.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
		User:      &domain.User{ID: "user_1", Username: "ada"},
	}, nil
}

func (s *stubAuthService) Refresh(_ context.Context, token, _ string) (*ports.TokenPair, error) {
	s.refreshToken = token
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &ports.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (s *stubAuthService) Logout(_ context.Context, identityID, _ string) error {
	s.logoutID = identityID
	return s.logoutErr
}

type stubAssetStore struct {
	uploads []string
	err     error
}

func (s *stubAssetStore) Upload(_ context.Context, prefix, _ string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, body)
	s.uploads = append(s.uploads, prefix)
	return "https://cdn.example/" + prefix + "/obj", nil
}

func newTestHandler(auth *stubAuthService, assets *stubAssetStore) *AuthHandler {
	return NewAuthHandler(auth, assets, session.Config{Secure: true})
}

func newContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// registerRequest builds a multipart register request; nil field or file names
// in skip are omitted.
func registerRequest(t *testing.T, skip ...string) *http.Request {
	t.Helper()

	skipped := func(name string) bool {
		for _, s := range skip {
			if s == name {
				return true
			}
		}
		return false
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"username":  "Ada",
		"email":     "ada@x.io",
		"password":  "secret1",
		"full_name": "Ada L.",
	}
	for name, value := range fields {
		if skipped(name) {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for _, name := range []string{"avatar", "cover_image"} {
		if skipped(name) {
			continue
		}
		fw, err := w.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := fw.Write([]byte("png-bytes")); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRegister_Created(t *testing.T) {
	auth := &stubAuthService{}
	assets := &stubAssetStore{}
	h := newTestHandler(auth, assets)

	c, rec := newContext(t, registerRequest(t))
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(assets.uploads) != 2 || assets.uploads[0] != "avatars" || assets.uploads[1] != "covers" {
		t.Fatalf("unexpected uploads: %v", assets.uploads)
	}
	if auth.registerIn == nil {
		t.Fatalf("service not called")
	}
	if auth.registerIn.AvatarURL == "" || auth.registerIn.CoverImageURL == "" {
		t.Fatalf("asset URLs not forwarded: %+v", auth.registerIn)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != "created" || resp.User == nil || resp.User.ID != "user_1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response must not carry credential fields: %s", rec.Body.String())
	}
}

func TestRegister_MissingFile(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	c, _ := newContext(t, registerRequest(t, "cover_image"))
	err := h.Register(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if auth.registerIn != nil {
		t.Fatalf("service must not be called without both files")
	}
}

func TestRegister_MissingField(t *testing.T) {
	h := newTestHandler(&stubAuthService{}, &stubAssetStore{})

	c, _ := newContext(t, registerRequest(t, "email"))
	err := h.Register(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRegister_UploadFailureAbortsBeforeInsert(t *testing.T) {
	auth := &stubAuthService{}
	assets := &stubAssetStore{err: domain.ErrAssetUpload}
	h := newTestHandler(auth, assets)

	c, _ := newContext(t, registerRequest(t))
	err := h.Register(c)

	if !errors.Is(err, domain.ErrAssetUpload) {
		t.Fatalf("expected ErrAssetUpload, got %v", err)
	}
	if auth.registerIn != nil {
		t.Fatalf("identity must not be created when an upload fails")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	auth := &stubAuthService{registerErr: domain.ErrUserExists}
	h := newTestHandler(auth, &stubAssetStore{})

	c, _ := newContext(t, registerRequest(t))
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists passed through, got %v", err)
	}
}

func TestLogin_SetsCookies(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	c, rec := newContext(t, jsonRequest(t, "/api/v1/auth/login", map[string]string{
		"email":    "ada@x.io",
		"password": "secret1",
	}))
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.loginIdentifier != "ada@x.io" {
		t.Fatalf("wrong identifier: %q", auth.loginIdentifier)
	}

	access := cookieByName(rec, session.AccessCookie)
	refresh := cookieByName(rec, session.RefreshCookie)
	if access == nil || access.Value != "access-1" {
		t.Fatalf("access cookie not set: %+v", access)
	}
	if refresh == nil || refresh.Value != "refresh-1" {
		t.Fatalf("refresh cookie not set: %+v", refresh)
	}
	if !access.HttpOnly || !access.Secure {
		t.Fatalf("access cookie must be HttpOnly and Secure: %+v", access)
	}
}

func TestLogin_UsernameFallback(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	c, _ := newContext(t, jsonRequest(t, "/api/v1/auth/login", map[string]string{
		"username": "ada",
		"password": "secret1",
	}))
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if auth.loginIdentifier != "ada" {
		t.Fatalf("wrong identifier: %q", auth.loginIdentifier)
	}
}

func TestLogin_NoIdentifier(t *testing.T) {
	h := newTestHandler(&stubAuthService{}, &stubAssetStore{})

	c, _ := newContext(t, jsonRequest(t, "/api/v1/auth/login", map[string]string{
		"password": "secret1",
	}))
	err := h.Login(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogin_BadCredentialsPassThrough(t *testing.T) {
	auth := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := newTestHandler(auth, &stubAssetStore{})

	c, rec := newContext(t, jsonRequest(t, "/api/v1/auth/login", map[string]string{
		"email":    "ada@x.io",
		"password": "wrong",
	}))
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passed through, got %v", err)
	}
	if cookieByName(rec, session.AccessCookie) != nil {
		t.Fatalf("no cookies on failed login")
	}
}

func TestRefresh_FromCookie(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "refresh-1"})
	c, rec := newContext(t, req)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if auth.refreshToken != "refresh-1" {
		t.Fatalf("wrong token forwarded: %q", auth.refreshToken)
	}
	if got := cookieByName(rec, session.RefreshCookie); got == nil || got.Value != "refresh-2" {
		t.Fatalf("rotated refresh cookie not set: %+v", got)
	}
}

func TestRefresh_FromBody(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	c, _ := newContext(t, jsonRequest(t, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "refresh-1",
	}))
	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if auth.refreshToken != "refresh-1" {
		t.Fatalf("wrong token forwarded: %q", auth.refreshToken)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	h := newTestHandler(&stubAuthService{}, &stubAssetStore{})

	c, _ := newContext(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))
	err := h.Refresh(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRefresh_ReusePassThrough(t *testing.T) {
	auth := &stubAuthService{refreshErr: domain.ErrTokenReused}
	h := newTestHandler(auth, &stubAssetStore{})

	c, _ := newContext(t, jsonRequest(t, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "stale",
	}))
	if err := h.Refresh(c); !errors.Is(err, domain.ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused passed through, got %v", err)
	}
}

func TestLogout_ClearsCookies(t *testing.T) {
	auth := &stubAuthService{}
	h := newTestHandler(auth, &stubAssetStore{})

	c, rec := newContext(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	c.Set(middleware.IdentityKey, &domain.User{ID: "user_1", Username: "ada"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if auth.logoutID != "user_1" {
		t.Fatalf("wrong identity: %q", auth.logoutID)
	}

	for _, name := range []string{session.AccessCookie, session.RefreshCookie} {
		ck := cookieByName(rec, name)
		if ck == nil {
			t.Fatalf("cookie %s not cleared", name)
		}
		if ck.Value != "" || ck.MaxAge >= 0 {
			t.Fatalf("cookie %s not expired: value=%q maxAge=%d", name, ck.Value, ck.MaxAge)
		}
	}
}

func TestLogout_NoIdentity(t *testing.T) {
	h := newTestHandler(&stubAuthService{}, &stubAssetStore{})

	c, _ := newContext(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	err := h.Logout(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
