package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/charitydrive/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgKeyRepository struct {
	db DB
}

// NewPgKeyRepository returns a PostgreSQL-backed KeyRepository.
func NewPgKeyRepository(db DB) KeyRepository {
	return &pgKeyRepository{db: db}
}

const keySelectCols = `id, prize_id, code, COALESCE(claim_id::text, ''), created_at`

func scanKey(scan func(...any) error) (*model.PrizeKey, error) {
	k := &model.PrizeKey{}
	err := scan(&k.ID, &k.PrizeID, &k.Code, &k.ClaimID, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (r *pgKeyRepository) listWhere(ctx context.Context, where string, args ...any) ([]*model.PrizeKey, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+keySelectCols+` FROM prize_keys WHERE `+where+` ORDER BY created_at, id`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.PrizeKey
	for rows.Next() {
		k, err := scanKey(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (r *pgKeyRepository) ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeKey, error) {
	return r.listWhere(ctx, "prize_id = $1", prizeID)
}

func (r *pgKeyRepository) ListUnclaimed(ctx context.Context, prizeID string) ([]*model.PrizeKey, error) {
	return r.listWhere(ctx, "prize_id = $1 AND claim_id IS NULL", prizeID)
}

func (r *pgKeyRepository) CountByPrize(ctx context.Context, prizeID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM prize_keys WHERE prize_id = $1`, prizeID).Scan(&n)
	return n, err
}

func (r *pgKeyRepository) GetByClaim(ctx context.Context, claimID string) (*model.PrizeKey, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+keySelectCols+` FROM prize_keys WHERE claim_id = $1`, claimID)
	k, err := scanKey(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return k, err
}

func (r *pgKeyRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM prize_keys WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *pgKeyRepository) Create(ctx context.Context, k *model.PrizeKey) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO prize_keys (id, prize_id, code) VALUES ($1, $2, $3)
		 RETURNING created_at`,
		k.ID, k.PrizeID, k.Code,
	).Scan(&k.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgKeyRepository) Assign(ctx context.Context, keyID, claimID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prize_keys SET claim_id = $2 WHERE id = $1 AND claim_id IS NULL`,
		keyID, claimID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM prize_keys WHERE id = $1)`, keyID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrKeyAssigned
		}
		return ErrNotFound
	}
	return nil
}
