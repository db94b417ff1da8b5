package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidtube/video-platform/internal/core/domain"
	"github.com/vidtube/video-platform/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService that appends auth events to the
// audit collection.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process persists a single auth event. Events are internal facts, not
// external deliveries, so there is no dedup step and failures only affect the
// audit trail, never the operation that produced the event.
func (s *eventService) Process(ctx context.Context, in ports.AuthEventInput) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := &domain.AuthEvent{
		IdentityID: in.IdentityID,
		Kind:       in.Kind,
		Source:     in.Source,
		Timestamp:  ts,
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("user_id", in.IdentityID).
		Str("kind", string(in.Kind)).
		Msg("auth event recorded")

	return nil
}
