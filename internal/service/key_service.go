package service

import (
	"context"
	"errors"
	"strings"

	"github.com/charitydrive/backend/internal/metrics"
	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/google/uuid"
)

// KeyService manages the redemption-key inventory of key-code prizes.
// max_winners tracks the inventory count: both operations end by pinning it
// to the live key count, so the invariant is visible at the call site instead
// of hiding in a save hook.
type KeyService interface {
	// ImportKeys appends unique keys to the prize's inventory. Duplicates
	// within the batch are skipped; a code that already exists anywhere in
	// the system rejects the whole import.
	ImportKeys(ctx context.Context, prizeID string, codes []string) (int, error)
	// SyncMaxWinners re-pins max_winners to the key count. Called whenever a
	// key-code prize is saved.
	SyncMaxWinners(ctx context.Context, prizeID string) (int, error)
}

type keyService struct {
	store repository.Store
}

// NewKeyService creates a KeyService.
func NewKeyService(store repository.Store) KeyService {
	return &keyService{store: store}
}

func (s *keyService) ImportKeys(ctx context.Context, prizeID string, codes []string) (int, error) {
	added := 0
	err := s.store.InPrizeTx(ctx, prizeID, func(r repository.Repositories) error {
		prize, err := r.Prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		if !prize.KeyCode {
			return ErrNotKeyCode
		}

		seen := make(map[string]bool, len(codes))
		for _, raw := range codes {
			code := strings.TrimSpace(raw)
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true

			exists, err := r.Keys.Exists(ctx, code)
			if err != nil {
				return err
			}
			if exists {
				return &DuplicateKeyError{Code: code}
			}
			err = r.Keys.Create(ctx, &model.PrizeKey{
				ID:      uuid.NewString(),
				PrizeID: prizeID,
				Code:    code,
			})
			if errors.Is(err, repository.ErrDuplicate) {
				return &DuplicateKeyError{Code: code}
			}
			if err != nil {
				return err
			}
			added++
		}

		n, err := r.Keys.CountByPrize(ctx, prizeID)
		if err != nil {
			return err
		}
		return r.Prizes.SetMaxWinners(ctx, prizeID, n)
	})
	if err != nil {
		return 0, err
	}

	metrics.KeysImportedTotal.Add(float64(added))
	return added, nil
}

func (s *keyService) SyncMaxWinners(ctx context.Context, prizeID string) (int, error) {
	var n int
	err := s.store.InPrizeTx(ctx, prizeID, func(r repository.Repositories) error {
		prize, err := r.Prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		if !prize.KeyCode {
			return ErrNotKeyCode
		}
		n, err = r.Keys.CountByPrize(ctx, prizeID)
		if err != nil {
			return err
		}
		return r.Prizes.SetMaxWinners(ctx, prizeID, n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
