package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Prize states as set by staff review of a contributed prize.
const (
	PrizePending  = "PENDING"
	PrizeFlagged  = "FLAGGED"
	PrizeAccepted = "ACCEPTED"
	PrizeDenied   = "DENIED"
)

// Prize is a drawable item or, when KeyCode is set, a batch of redemption
// keys. MinimumBid and MaximumBid must be equal; the range form survives only
// in the data model.
type Prize struct {
	ID               string `json:"id"`
	EventID          string `json:"event_id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ContributorName  string `json:"contributor_name,omitempty"`
	ContributorEmail string `json:"-"`

	MinimumBid decimal.Decimal `json:"minimum_bid"`
	MaximumBid decimal.Decimal `json:"maximum_bid"`

	// SumDonations selects the weight fold: total of qualifying donations
	// when true, single largest donation when false.
	SumDonations bool `json:"sum_donations"`
	// RandomDraw selects a weighted lottery; false means the largest donor
	// wins outright.
	RandomDraw bool `json:"random_draw"`

	MaxWinners  int `json:"max_winners"`
	MaxMultiWin int `json:"max_multi_win"`

	RequiresShipping bool `json:"requires_shipping"`
	KeyCode          bool `json:"key_code"`

	// CustomCountryFilter switches region filtering from the event's lists to
	// the prize's own.
	CustomCountryFilter bool     `json:"custom_country_filter"`
	AllowedCountries    []string `json:"allowed_countries,omitempty"`
	DeniedRegions       []Region `json:"denied_regions,omitempty"`

	StartDrawTime *time.Time `json:"start_draw_time,omitempty"`
	EndDrawTime   *time.Time `json:"end_draw_time,omitempty"`

	State                string `json:"state"`
	ContributorEmailSent bool   `json:"contributor_email_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrizeKey is one redeemable code belonging to a key-code prize. Once a key
// carries a claim ID it is never reassigned.
type PrizeKey struct {
	ID        string    `json:"id"`
	PrizeID   string    `json:"prize_id"`
	Code      string    `json:"-"`
	ClaimID   string    `json:"claim_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Claimed reports whether the key has been awarded to a winner.
func (k *PrizeKey) Claimed() bool { return k.ClaimID != "" }

// EffectiveMaxMultiWin returns the per-donor win cap. Key-code prizes are
// always capped at one win per donor.
func (p *Prize) EffectiveMaxMultiWin() int {
	if p.KeyCode || p.MaxMultiWin < 1 {
		return 1
	}
	return p.MaxMultiWin
}

// DrawWindowOpen reports whether now falls inside the prize's draw window.
// A missing bound applies no constraint on that side.
func (p *Prize) DrawWindowOpen(now time.Time) bool {
	if p.StartDrawTime != nil && now.Before(*p.StartDrawTime) {
		return false
	}
	if p.EndDrawTime != nil && now.After(*p.EndDrawTime) {
		return false
	}
	return true
}

// EffectiveAllowedCountries returns the allow-list in force for this prize:
// its own when CustomCountryFilter is set, otherwise the event's.
func (p *Prize) EffectiveAllowedCountries(ev *Event) []string {
	if p.CustomCountryFilter {
		return p.AllowedCountries
	}
	if ev != nil {
		return ev.AllowedCountries
	}
	return nil
}

// EffectiveDeniedRegions returns the deny-list in force for this prize.
func (p *Prize) EffectiveDeniedRegions(ev *Event) []Region {
	if p.CustomCountryFilter {
		return p.DeniedRegions
	}
	if ev != nil {
		return ev.DeniedRegions
	}
	return nil
}

// RegionAllowed reports whether a donor in (country, region) passes the
// prize's effective region filters. Comparison is case-insensitive.
func (p *Prize) RegionAllowed(ev *Event, country, region string) bool {
	if allowed := p.EffectiveAllowedCountries(ev); len(allowed) > 0 {
		found := false
		for _, c := range allowed {
			if strings.EqualFold(c, country) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, d := range p.EffectiveDeniedRegions(ev) {
		if strings.EqualFold(d.Country, country) && strings.EqualFold(d.Region, region) {
			return false
		}
	}
	return true
}
