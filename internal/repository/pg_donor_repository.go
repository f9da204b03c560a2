package repository

import (
	"context"
	"errors"

	"github.com/charitydrive/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgDonorRepository struct {
	db DB
}

// NewPgDonorRepository returns a PostgreSQL-backed DonorRepository.
func NewPgDonorRepository(db DB) DonorRepository {
	return &pgDonorRepository{db: db}
}

func (r *pgDonorRepository) GetByID(ctx context.Context, id string) (*model.Donor, error) {
	d := &model.Donor{}
	err := r.db.QueryRow(ctx,
		`SELECT id, display_name, email, COALESCE(country, ''), COALESCE(region, ''), created_at
		 FROM donors WHERE id = $1`, id,
	).Scan(&d.ID, &d.DisplayName, &d.Email, &d.Country, &d.Region, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
