package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAssetUpload        = errors.New("asset upload failed")
)

// ErrTokenReused marks a refresh token that was valid once but has since been
// rotated out. It wraps ErrInvalidToken so callers that only care about
// "token no longer usable" can match either.
var ErrTokenReused = fmt.Errorf("token reuse detected: %w", ErrInvalidToken)

// User models a registered identity. PasswordHash and RefreshToken never leave
// the auth core: both are excluded from JSON and zeroed by Sanitized.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url"`
	PasswordHash  string    `json:"-"`
	RefreshToken  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe for exposure outside the auth core.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.RefreshToken = ""
	return &clone
}
