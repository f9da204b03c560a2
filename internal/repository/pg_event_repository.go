package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charitydrive/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgEventRepository struct {
	db DB
}

// NewPgEventRepository returns a PostgreSQL-backed EventRepository.
func NewPgEventRepository(db DB) EventRepository {
	return &pgEventRepository{db: db}
}

const eventSelectCols = `id, name, archived, accept_deadline_days,
	allowed_countries, denied_regions,
	COALESCE(coordinator_name, ''), COALESCE(coordinator_email, ''),
	created_at, updated_at`

func scanEvent(scan func(...any) error) (*model.Event, error) {
	e := &model.Event{}
	var denied []byte
	err := scan(
		&e.ID, &e.Name, &e.Archived, &e.AcceptDeadlineDays,
		&e.AllowedCountries, &denied,
		&e.CoordinatorName, &e.CoordinatorEmail,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(denied) > 0 {
		if err := json.Unmarshal(denied, &e.DeniedRegions); err != nil {
			return nil, fmt.Errorf("decode denied_regions: %w", err)
		}
	}
	return e, nil
}

func (r *pgEventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventSelectCols+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *pgEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventSelectCols+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
