package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type sessionClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and refresh tokens as HS256 JWTs. The two kinds
// share the claim shape but carry distinct secrets and lifetimes.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (i *TokenIssuer) IssueAccess(user *domain.User) (string, error) {
	return i.sign(user, i.accessSecret, i.accessTTL)
}

func (i *TokenIssuer) IssueRefresh(user *domain.User) (string, error) {
	return i.sign(user, i.refreshSecret, i.refreshTTL)
}

func (i *TokenIssuer) VerifyAccess(token string) (*ports.TokenClaims, error) {
	return i.verify(token, i.accessSecret)
}

func (i *TokenIssuer) VerifyRefresh(token string) (*ports.TokenClaims, error) {
	return i.verify(token, i.refreshSecret)
}

func (i *TokenIssuer) sign(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// verify checks signature and expiry only. Whether a refresh token is still
// the active one for its identity is decided against persisted state by the
// AuthService, not here.
func (i *TokenIssuer) verify(token string, secret []byte) (*ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
		FullName: claims.FullName,
	}, nil
}
