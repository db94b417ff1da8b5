package ports

import (
	"context"
	"time"

	"github.com/vidtube/video-platform/internal/core/domain"
)

// AuthEventInput is the DTO handed from the auth service to the audit pipeline.
type AuthEventInput struct {
	IdentityID string
	Kind       domain.AuthEventKind
	Source     string
	Timestamp  time.Time
}

// EventService persists auth audit events.
type EventService interface {
	Process(ctx context.Context, event AuthEventInput) error
}

// EventRecorder is the fire-and-forget side the auth service sees. The
// dispatcher implements it; recording never blocks a login on audit I/O.
type EventRecorder interface {
	Record(event AuthEventInput)
}
