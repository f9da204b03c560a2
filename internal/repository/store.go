package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles the per-aggregate repositories over one DB handle.
type Repositories struct {
	Events    EventRepository
	Donors    DonorRepository
	Donations DonationRepository
	Prizes    PrizeRepository
	Claims    ClaimRepository
	Keys      KeyRepository
}

// Store provides repository access plus the transactional scope the drawing
// engine requires: every mutation of a prize's claim set runs inside
// InPrizeTx, which holds a row lock on the prize for the duration of fn so
// concurrent draws cannot both pass the quota check.
type Store interface {
	Repos() Repositories
	InPrizeTx(ctx context.Context, prizeID string, fn func(Repositories) error) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a PostgreSQL-backed Store.
func NewPgStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func newRepositories(db DB) Repositories {
	return Repositories{
		Events:    NewPgEventRepository(db),
		Donors:    NewPgDonorRepository(db),
		Donations: NewPgDonationRepository(db),
		Prizes:    NewPgPrizeRepository(db),
		Claims:    NewPgClaimRepository(db),
		Keys:      NewPgKeyRepository(db),
	}
}

func (s *pgStore) Repos() Repositories {
	return newRepositories(s.pool)
}

func (s *pgStore) InPrizeTx(ctx context.Context, prizeID string, fn func(Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `SELECT id FROM prizes WHERE id = $1 FOR UPDATE`, prizeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock prize: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
