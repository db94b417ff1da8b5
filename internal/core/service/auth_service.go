package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

// AuthService orchestrates register, login, refresh, and logout against the
// credential store, the password hasher, and the token issuer.
//
// The session model is single-session: every login or refresh overwrites the
// stored refresh token, immediately invalidating the previous one.
type AuthService struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	issuer ports.TokenIssuer
	events ports.EventRecorder
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher *PasswordHasher,
	issuer ports.TokenIssuer,
	events ports.EventRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, issuer: issuer, events: events, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, domain.ErrInvalidInput
	}
	// Assets are uploaded by the external collaborator before this call;
	// an identity without them is not accepted.
	if in.AvatarURL == "" || in.CoverImageURL == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     in.AvatarURL,
		CoverImageURL: in.CoverImageURL,
		PasswordHash:  hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Uniqueness is decided by the store's constrained insert alone; a prior
	// existence check would race with concurrent registrations.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.events.Record(ports.AuthEventInput{IdentityID: created.ID, Kind: domain.EventRegistered, Timestamp: now})
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return created.Sanitized(), nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password, source string) (*ports.LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// Do not leak whether the identifier or the password failed.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.events.Record(ports.AuthEventInput{
			IdentityID: user.ID,
			Kind:       domain.EventLoginFailed,
			Source:     source,
			Timestamp:  time.Now().UTC(),
		})
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.events.Record(ports.AuthEventInput{
		IdentityID: user.ID,
		Kind:       domain.EventLogin,
		Source:     source,
		Timestamp:  time.Now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return &ports.LoginResult{TokenPair: *pair, User: user.Sanitized()}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken, source string) (*ports.TokenPair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	// The signature alone is not enough: only the most recently issued
	// refresh token is acceptable. A logged-out identity has no active
	// session at all; a mismatch against an active one means the presented
	// token was rotated out and is being replayed.
	if user.RefreshToken == "" {
		return nil, domain.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		s.reportReuse(user.ID, source)
		return nil, domain.ErrTokenReused
	}

	accessToken, err := s.issuer.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	nextRefresh, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	// Single conditional write keyed by identity id: of two concurrent
	// refreshes presenting the same token, exactly one lands.
	if err := s.repo.RotateRefreshToken(ctx, user.ID, refreshToken, nextRefresh); err != nil {
		if err == domain.ErrTokenReused {
			s.reportReuse(user.ID, source)
		}
		return nil, err
	}

	s.events.Record(ports.AuthEventInput{
		IdentityID: user.ID,
		Kind:       domain.EventRefresh,
		Source:     source,
		Timestamp:  time.Now().UTC(),
	})

	return &ports.TokenPair{AccessToken: accessToken, RefreshToken: nextRefresh}, nil
}

func (s *AuthService) Logout(ctx context.Context, identityID, source string) error {
	// Clearing an already-empty token matches the same document, so logging
	// out twice is not an error.
	if err := s.repo.SetRefreshToken(ctx, identityID, ""); err != nil {
		return err
	}

	s.events.Record(ports.AuthEventInput{
		IdentityID: identityID,
		Kind:       domain.EventLogout,
		Source:     source,
		Timestamp:  time.Now().UTC(),
	})
	s.log.Info().Str("user_id", identityID).Msg("logout")

	return nil
}

// issueSession mints a fresh pair and persists the refresh token, overwriting
// whatever session was active before.
func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	accessToken, err := s.issuer.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) reportReuse(identityID, source string) {
	s.log.Warn().Str("user_id", identityID).Msg("refresh token reuse detected")
	s.events.Record(ports.AuthEventInput{
		IdentityID: identityID,
		Kind:       domain.EventTokenReuse,
		Source:     source,
		Timestamp:  time.Now().UTC(),
	})
}
