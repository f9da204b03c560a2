package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charitydrive/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgPrizeRepository struct {
	db DB
}

// NewPgPrizeRepository returns a PostgreSQL-backed PrizeRepository.
func NewPgPrizeRepository(db DB) PrizeRepository {
	return &pgPrizeRepository{db: db}
}

const prizeSelectCols = `id, event_id, name, COALESCE(description, ''),
	COALESCE(contributor_name, ''), COALESCE(contributor_email, ''),
	minimum_bid, maximum_bid, sum_donations, random_draw,
	max_winners, max_multi_win, requires_shipping, key_code,
	custom_country_filter, allowed_countries, denied_regions,
	start_draw_time, end_draw_time, state, contributor_email_sent,
	created_at, updated_at`

func scanPrize(scan func(...any) error) (*model.Prize, error) {
	p := &model.Prize{}
	var denied []byte
	err := scan(
		&p.ID, &p.EventID, &p.Name, &p.Description,
		&p.ContributorName, &p.ContributorEmail,
		&p.MinimumBid, &p.MaximumBid, &p.SumDonations, &p.RandomDraw,
		&p.MaxWinners, &p.MaxMultiWin, &p.RequiresShipping, &p.KeyCode,
		&p.CustomCountryFilter, &p.AllowedCountries, &denied,
		&p.StartDrawTime, &p.EndDrawTime, &p.State, &p.ContributorEmailSent,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(denied) > 0 {
		if err := json.Unmarshal(denied, &p.DeniedRegions); err != nil {
			return nil, fmt.Errorf("decode denied_regions: %w", err)
		}
	}
	return p, nil
}

func (r *pgPrizeRepository) GetByID(ctx context.Context, id string) (*model.Prize, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+prizeSelectCols+` FROM prizes WHERE id = $1`, id)
	p, err := scanPrize(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *pgPrizeRepository) ListByEvent(ctx context.Context, eventID string) ([]*model.Prize, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+prizeSelectCols+` FROM prizes WHERE event_id = $1 ORDER BY created_at DESC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Prize
	for rows.Next() {
		p, err := scanPrize(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func deniedRegionsJSON(regions []model.Region) ([]byte, error) {
	if regions == nil {
		regions = []model.Region{}
	}
	return json.Marshal(regions)
}

func (r *pgPrizeRepository) Create(ctx context.Context, p *model.Prize) error {
	denied, err := deniedRegionsJSON(p.DeniedRegions)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO prizes
		 (id, event_id, name, description, contributor_name, contributor_email,
		  minimum_bid, maximum_bid, sum_donations, random_draw,
		  max_winners, max_multi_win, requires_shipping, key_code,
		  custom_country_filter, allowed_countries, denied_regions,
		  start_draw_time, end_draw_time, state, contributor_email_sent)
		 VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''),
		         $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 RETURNING created_at, updated_at`,
		p.ID, p.EventID, p.Name, p.Description, p.ContributorName, p.ContributorEmail,
		p.MinimumBid, p.MaximumBid, p.SumDonations, p.RandomDraw,
		p.MaxWinners, p.MaxMultiWin, p.RequiresShipping, p.KeyCode,
		p.CustomCountryFilter, p.AllowedCountries, denied,
		p.StartDrawTime, p.EndDrawTime, p.State, p.ContributorEmailSent,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgPrizeRepository) Update(ctx context.Context, p *model.Prize) error {
	denied, err := deniedRegionsJSON(p.DeniedRegions)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE prizes SET
		   name = $2, description = NULLIF($3,''),
		   contributor_name = NULLIF($4,''), contributor_email = NULLIF($5,''),
		   minimum_bid = $6, maximum_bid = $7, sum_donations = $8, random_draw = $9,
		   max_winners = $10, max_multi_win = $11, requires_shipping = $12,
		   custom_country_filter = $13, allowed_countries = $14, denied_regions = $15,
		   start_draw_time = $16, end_draw_time = $17, state = $18,
		   contributor_email_sent = $19, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.ContributorName, p.ContributorEmail,
		p.MinimumBid, p.MaximumBid, p.SumDonations, p.RandomDraw,
		p.MaxWinners, p.MaxMultiWin, p.RequiresShipping,
		p.CustomCountryFilter, p.AllowedCountries, denied,
		p.StartDrawTime, p.EndDrawTime, p.State, p.ContributorEmailSent,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgPrizeRepository) SetMaxWinners(ctx context.Context, id string, n int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prizes SET max_winners = $2, updated_at = NOW() WHERE id = $1`, id, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgPrizeRepository) ListEntries(ctx context.Context, prizeID string) ([]*model.DonorPrizeEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT prize_id, donor_id FROM donor_prize_entries WHERE prize_id = $1 ORDER BY donor_id`,
		prizeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.DonorPrizeEntry
	for rows.Next() {
		e := &model.DonorPrizeEntry{}
		if err := rows.Scan(&e.PrizeID, &e.DonorID); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
