package repository

import (
	"context"
	"time"

	"github.com/charitydrive/backend/internal/model"
)

// DonationQuery bounds the qualifying-donation read for one eligibility pass.
// A nil Start or End applies no constraint on that side.
type DonationQuery struct {
	EventID string
	Start   *time.Time
	End     *time.Time
}

// DonationRepository is the read-only boundary to the donation ledger.
type DonationRepository interface {
	// Qualifying returns completed, non-test donations for the event within
	// the window, joined with each donor's shipping country and region.
	Qualifying(ctx context.Context, q DonationQuery) ([]*model.QualifyingDonation, error)
}
