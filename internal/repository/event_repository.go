package repository

import (
	"context"

	"github.com/charitydrive/backend/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository interface {
	// GetByID returns a single event by ID.
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// List returns all events, newest first.
	List(ctx context.Context) ([]*model.Event, error)
}
