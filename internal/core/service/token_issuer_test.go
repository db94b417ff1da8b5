package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vidtube/video-platform/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "64f000000000000000000001",
		Username: "ada",
		Email:    "ada@x.io",
		FullName: "Ada L.",
	}
}

func TestTokenIssuer_AccessRoundtrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
	if claims.Email != "ada@x.io" || claims.Username != "ada" || claims.FullName != "Ada L." {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_RefreshRoundtrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	claims, err := issuer.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh returned error: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
}

func TestTokenIssuer_SecretsAreDistinct(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	access, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, err := issuer.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if _, err := issuer.VerifyRefresh(access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token must not verify as refresh, got %v", err)
	}
	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token must not verify as access, got %v", err)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Nanosecond, time.Nanosecond)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := issuer.VerifyAccess(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	if _, err := issuer.VerifyAccess("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Tampered(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	suffix := "xx"
	if token[len(token)-2:] == suffix {
		suffix = "yy"
	}
	tampered := token[:len(token)-2] + suffix
	if _, err := issuer.VerifyAccess(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
