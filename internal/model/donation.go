package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is one payment against an event, as recorded by the donation
// ledger. The drawing engine never writes donations; only completed, non-test
// rows count toward a drawing.
type Donation struct {
	ID           string          `json:"id"`
	EventID      string          `json:"event_id"`
	DonorID      string          `json:"donor_id"`
	Amount       decimal.Decimal `json:"amount"`
	Completed    bool            `json:"completed"`
	TestDonation bool            `json:"test_donation"`
	ReceivedAt   time.Time       `json:"received_at"`
}

// QualifyingDonation is one completed, non-test donation joined with its
// donor's shipping region, as consumed by a single eligibility pass.
type QualifyingDonation struct {
	DonorID string
	Amount  decimal.Decimal
	Country string
	Region  string
}

// DonorEntry pairs a donor with a draw weight for one eligibility pass.
// Entries are ordered by donor ID so a seeded draw over the same pool is
// reproducible.
type DonorEntry struct {
	DonorID string          `json:"donor_id"`
	Weight  decimal.Decimal `json:"weight"`
}

// DonorPrizeEntry is a direct, weight-free opt-in to a prize drawing.
// It enters the pool at the prize's minimum bid.
type DonorPrizeEntry struct {
	PrizeID string `json:"prize_id"`
	DonorID string `json:"donor_id"`
}
