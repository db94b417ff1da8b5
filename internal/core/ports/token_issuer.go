package ports

import "github.com/vidtube/video-platform/internal/core/domain"

// TokenClaims is the identity payload carried by both token kinds.
type TokenClaims struct {
	UserID   string
	Email    string
	Username string
	FullName string
}

// TokenIssuer signs and verifies session tokens. Access and refresh tokens use
// distinct secrets so possession of one never implies forgeability of the
// other. Verification checks signature and expiry only; comparing a refresh
// token against persisted state is the AuthService's job.
type TokenIssuer interface {
	IssueAccess(user *domain.User) (string, error)
	IssueRefresh(user *domain.User) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
}
