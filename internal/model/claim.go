package model

import "time"

// ShippingState tracks the physical fulfilment of an accepted claim.
// The empty state means shipping does not apply.
type ShippingState string

const (
	ShippingNotApplicable ShippingState = ""
	ShippingPending       ShippingState = "PENDING"
	ShippingShipped       ShippingState = "SHIPPED"
	ShippingAwarded       ShippingState = "AWARDED"
)

// PrizeClaim is one donor's relationship to one prize, unique per
// (prize, donor). The three counters sum to the number of prize copies
// assigned to the donor; a copy is pending, accepted, or declined, never more
// than one at a time.
type PrizeClaim struct {
	ID      string `json:"id"`
	PrizeID string `json:"prize_id"`
	DonorID string `json:"donor_id"`

	PendingCount int `json:"pending_count"`
	AcceptCount  int `json:"accept_count"`
	DeclineCount int `json:"decline_count"`

	AcceptDeadline *time.Time    `json:"accept_deadline,omitempty"`
	ShippingState  ShippingState `json:"shipping_state,omitempty"`

	// AuthCode stands in for a login in the self-service accept/decline flow.
	// It is never serialized out.
	AuthCode string `json:"-"`

	WinnerEmailSent bool `json:"winner_email_sent"`
	// AcceptEmailSentCount is how many accepted copies the prize contributor
	// has been notified about.
	AcceptEmailSentCount int  `json:"accept_email_sent_count"`
	ShippingEmailSent    bool `json:"shipping_email_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Copies is the total number of prize copies ever assigned to this donor.
func (c *PrizeClaim) Copies() int {
	return c.PendingCount + c.AcceptCount + c.DeclineCount
}

// ActiveCount is the number of copies counting against the prize's winner
// quota: pending plus accepted.
func (c *PrizeClaim) ActiveCount() int {
	return c.PendingCount + c.AcceptCount
}

// ActiveCountAt counts the copies occupying the winner quota at now:
// accepted copies, plus pending copies whose deadline has not passed.
// Expired pending copies are dead weight awaiting the sweep and do not
// block a redraw.
func (c *PrizeClaim) ActiveCountAt(now time.Time) int {
	if c.Expired(now) {
		return c.AcceptCount
	}
	return c.PendingCount + c.AcceptCount
}

// Expired reports whether the claim has pending copies past their accept
// deadline.
func (c *PrizeClaim) Expired(now time.Time) bool {
	return c.PendingCount > 0 && c.AcceptDeadline != nil && now.After(*c.AcceptDeadline)
}

// aoe is the anywhere-on-earth timezone (UTC-12). A deadline expressed as end
// of day there has passed in every local timezone before it expires here.
var aoe = time.FixedZone("AoE", -12*60*60)

// AcceptDeadline returns the accept deadline for a claim drawn at now:
// end of the draw day anywhere-on-earth, plus the event's grace period.
func AcceptDeadline(now time.Time, days int) time.Time {
	t := now.In(aoe)
	eod := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, aoe)
	return eod.AddDate(0, 0, days)
}
