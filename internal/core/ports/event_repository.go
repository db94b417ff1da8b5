package ports

import (
	"context"

	"github.com/vidtube/video-platform/internal/core/domain"
)

// EventRepository appends auth events to the audit collection.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
