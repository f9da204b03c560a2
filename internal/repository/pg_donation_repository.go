package repository

import (
	"context"
	"fmt"

	"github.com/charitydrive/backend/internal/model"
)

type pgDonationRepository struct {
	db DB
}

// NewPgDonationRepository returns a PostgreSQL-backed DonationRepository.
func NewPgDonationRepository(db DB) DonationRepository {
	return &pgDonationRepository{db: db}
}

func (r *pgDonationRepository) Qualifying(ctx context.Context, q DonationQuery) ([]*model.QualifyingDonation, error) {
	query := `SELECT d.donor_id, d.amount, COALESCE(dn.country, ''), COALESCE(dn.region, '')
		FROM donations d
		JOIN donors dn ON dn.id = d.donor_id
		WHERE d.event_id = $1 AND d.completed AND NOT d.test_donation`
	args := []any{q.EventID}
	argIdx := 2

	if q.Start != nil {
		query += fmt.Sprintf(" AND d.received_at >= $%d", argIdx)
		args = append(args, *q.Start)
		argIdx++
	}
	if q.End != nil {
		query += fmt.Sprintf(" AND d.received_at <= $%d", argIdx)
		args = append(args, *q.End)
		argIdx++
	}
	query += " ORDER BY d.received_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.QualifyingDonation
	for rows.Next() {
		d := &model.QualifyingDonation{}
		if err := rows.Scan(&d.DonorID, &d.Amount, &d.Country, &d.Region); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
