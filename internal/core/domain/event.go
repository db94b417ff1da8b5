package domain

import "time"

// AuthEventKind classifies entries in the auth audit trail.
type AuthEventKind string

const (
	EventRegistered  AuthEventKind = "registered"
	EventLogin       AuthEventKind = "login"
	EventLoginFailed AuthEventKind = "login_failed"
	EventRefresh     AuthEventKind = "refresh"
	EventTokenReuse  AuthEventKind = "token_reuse"
	EventLogout      AuthEventKind = "logout"
)

// AuthEvent records a single security-relevant action against an identity.
type AuthEvent struct {
	IdentityID string
	Kind       AuthEventKind
	Source     string // remote address or client hint, best effort
	Timestamp  time.Time
}
