package repository

import (
	"context"

	"github.com/charitydrive/backend/internal/model"
)

// KeyRepository handles persistence for redemption keys on key-code prizes.
type KeyRepository interface {
	// ListByPrize returns all keys for a prize, claimed or not.
	ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeKey, error)
	// ListUnclaimed returns the prize's keys not yet attached to a claim, in
	// insertion order.
	ListUnclaimed(ctx context.Context, prizeID string) ([]*model.PrizeKey, error)
	// CountByPrize returns the prize's total key inventory.
	CountByPrize(ctx context.Context, prizeID string) (int, error)
	// GetByClaim returns the key attached to a claim.
	GetByClaim(ctx context.Context, claimID string) (*model.PrizeKey, error)
	// Exists reports whether a key code exists anywhere in the system.
	Exists(ctx context.Context, code string) (bool, error)
	// Create inserts a new key. Returns ErrDuplicate when the code collides.
	Create(ctx context.Context, k *model.PrizeKey) error
	// Assign attaches a key to a claim. Returns ErrKeyAssigned when the key
	// already belongs to one; assignments never change afterwards.
	Assign(ctx context.Context, keyID, claimID string) error
}
