package handler

import "github.com/vidtube/video-platform/internal/core/domain"

// registerForm captures the text fields of the multipart register request.
// The avatar and cover_image files are extracted separately.
type registerForm struct {
	Username string `form:"username"  validate:"required"`
	Email    string `form:"email"     validate:"required,email"`
	Password string `form:"password"  validate:"required,min=6"`
	FullName string `form:"full_name" validate:"required"`
}

// loginRequest accepts either identifier; the handler enforces that at least
// one is present.
type loginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password" validate:"required"`
}

// refreshRequest is the payload fallback for clients that do not carry the
// refresh cookie.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	Status string       `json:"status"`
	User   *domain.User `json:"user"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type logoutResponse struct {
	Status string `json:"status"`
}
