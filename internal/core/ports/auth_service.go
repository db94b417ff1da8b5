package ports

import (
	"context"

	"github.com/vidtube/video-platform/internal/core/domain"
)

// RegisterInput carries the fields required to create an identity. Asset URLs
// are produced by the upload collaborator before Register is called.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	FullName      string
	AvatarURL     string
	CoverImageURL string
}

// TokenPair is an access/refresh token pair minted for one session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult bundles the session tokens with the sanitized identity.
type LoginResult struct {
	TokenPair
	User *domain.User
}

type AuthService interface {
	// Register creates an identity and returns it sanitized. No tokens are
	// issued at registration.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login verifies credentials for a single identifier (email or username)
	// and starts a new session, invalidating any previous one.
	Login(ctx context.Context, identifier, password, source string) (*LoginResult, error)

	// Refresh rotates the presented refresh token into a new pair. A token
	// that is well-formed but no longer the active one fails with
	// domain.ErrTokenReused.
	Refresh(ctx context.Context, refreshToken, source string) (*TokenPair, error)

	// Logout clears the active session. Idempotent.
	Logout(ctx context.Context, identityID, source string) error
}
