package repository

import (
	"context"

	"github.com/charitydrive/backend/internal/model"
)

// PrizeRepository handles persistence for prizes and direct donor entries.
type PrizeRepository interface {
	// GetByID returns a single prize by ID.
	GetByID(ctx context.Context, id string) (*model.Prize, error)
	// ListByEvent returns the event's prizes, newest first.
	ListByEvent(ctx context.Context, eventID string) ([]*model.Prize, error)
	// Create inserts a new prize.
	Create(ctx context.Context, p *model.Prize) error
	// Update rewrites the prize's mutable fields.
	Update(ctx context.Context, p *model.Prize) error
	// SetMaxWinners pins max_winners, used to keep key-code prizes in sync
	// with their key inventory.
	SetMaxWinners(ctx context.Context, id string, n int) error
	// ListEntries returns the prize's direct donor opt-ins.
	ListEntries(ctx context.Context, prizeID string) ([]*model.DonorPrizeEntry, error)
}
