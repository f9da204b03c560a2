package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charitydrive/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgClaimRepository struct {
	db DB
}

// NewPgClaimRepository returns a PostgreSQL-backed ClaimRepository.
func NewPgClaimRepository(db DB) ClaimRepository {
	return &pgClaimRepository{db: db}
}

const claimSelectCols = `id, prize_id, donor_id,
	pending_count, accept_count, decline_count,
	accept_deadline, shipping_state, auth_code,
	winner_email_sent, accept_email_sent_count, shipping_email_sent,
	created_at, updated_at`

func scanClaim(scan func(...any) error) (*model.PrizeClaim, error) {
	c := &model.PrizeClaim{}
	var shipping string
	err := scan(
		&c.ID, &c.PrizeID, &c.DonorID,
		&c.PendingCount, &c.AcceptCount, &c.DeclineCount,
		&c.AcceptDeadline, &shipping, &c.AuthCode,
		&c.WinnerEmailSent, &c.AcceptEmailSentCount, &c.ShippingEmailSent,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ShippingState = model.ShippingState(shipping)
	return c, nil
}

func (r *pgClaimRepository) GetByID(ctx context.Context, id string) (*model.PrizeClaim, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+claimSelectCols+` FROM prize_claims WHERE id = $1`, id)
	c, err := scanClaim(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgClaimRepository) GetByPrizeAndDonor(ctx context.Context, prizeID, donorID string) (*model.PrizeClaim, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+claimSelectCols+` FROM prize_claims WHERE prize_id = $1 AND donor_id = $2`,
		prizeID, donorID)
	c, err := scanClaim(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgClaimRepository) ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeClaim, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+claimSelectCols+` FROM prize_claims WHERE prize_id = $1 ORDER BY donor_id`,
		prizeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.PrizeClaim
	for rows.Next() {
		c, err := scanClaim(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *pgClaimRepository) Create(ctx context.Context, c *model.PrizeClaim) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO prize_claims
		 (id, prize_id, donor_id, pending_count, accept_count, decline_count,
		  accept_deadline, shipping_state, auth_code,
		  winner_email_sent, accept_email_sent_count, shipping_email_sent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		c.ID, c.PrizeID, c.DonorID, c.PendingCount, c.AcceptCount, c.DeclineCount,
		c.AcceptDeadline, string(c.ShippingState), c.AuthCode,
		c.WinnerEmailSent, c.AcceptEmailSentCount, c.ShippingEmailSent,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgClaimRepository) Update(ctx context.Context, c *model.PrizeClaim) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prize_claims SET
		   pending_count = $2, accept_count = $3, decline_count = $4,
		   accept_deadline = $5, shipping_state = $6,
		   winner_email_sent = $7, accept_email_sent_count = $8,
		   shipping_email_sent = $9, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.PendingCount, c.AcceptCount, c.DeclineCount,
		c.AcceptDeadline, string(c.ShippingState),
		c.WinnerEmailSent, c.AcceptEmailSentCount, c.ShippingEmailSent,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgClaimRepository) ListExpiredPending(ctx context.Context, eventID string, now time.Time) ([]*model.PrizeClaim, error) {
	query := `SELECT ` + prefixClaimCols("c") + `
		FROM prize_claims c
		JOIN prizes p ON p.id = c.prize_id
		WHERE c.pending_count > 0 AND c.accept_deadline IS NOT NULL AND c.accept_deadline < $1`
	args := []any{now}
	if eventID != "" {
		query += " AND p.event_id = $2"
		args = append(args, eventID)
	}
	query += " ORDER BY c.accept_deadline"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.PrizeClaim
	for rows.Next() {
		c, err := scanClaim(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// prefixClaimCols qualifies the claim column list with a table alias for
// joined queries.
func prefixClaimCols(alias string) string {
	cols := strings.Split(claimSelectCols, ",")
	for i, col := range cols {
		cols[i] = fmt.Sprintf("%s.%s", alias, strings.TrimSpace(col))
	}
	return strings.Join(cols, ", ")
}
