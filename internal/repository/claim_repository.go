package repository

import (
	"context"
	"time"

	"github.com/charitydrive/backend/internal/model"
)

// ClaimRepository handles persistence for prize claims.
type ClaimRepository interface {
	// GetByID returns a single claim by ID.
	GetByID(ctx context.Context, id string) (*model.PrizeClaim, error)
	// GetByPrizeAndDonor returns the (unique) claim a donor holds on a prize.
	GetByPrizeAndDonor(ctx context.Context, prizeID, donorID string) (*model.PrizeClaim, error)
	// ListByPrize returns every claim on a prize.
	ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeClaim, error)
	// Create inserts a new claim.
	Create(ctx context.Context, c *model.PrizeClaim) error
	// Update rewrites the claim's counters, deadline, shipping state, and
	// notification flags.
	Update(ctx context.Context, c *model.PrizeClaim) error
	// ListExpiredPending returns claims with pending copies whose accept
	// deadline is before now. eventID narrows to one event; "" means all.
	ListExpiredPending(ctx context.Context, eventID string, now time.Time) ([]*model.PrizeClaim, error)
}
