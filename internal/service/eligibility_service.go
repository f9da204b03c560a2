package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// EligibilityService computes the set of donors who may win a prize, each
// paired with a draw weight. The returned slice is sorted by donor ID so a
// seeded draw over the same pool always walks it in the same order.
type EligibilityService interface {
	EligibleDonors(ctx context.Context, r repository.Repositories, prize *model.Prize, event *model.Event, claims []*model.PrizeClaim) ([]model.DonorEntry, error)
}

type eligibilityService struct{}

// NewEligibilityService creates an EligibilityService.
func NewEligibilityService() EligibilityService {
	return eligibilityService{}
}

func (eligibilityService) EligibleDonors(ctx context.Context, r repository.Repositories, prize *model.Prize, event *model.Event, claims []*model.PrizeClaim) ([]model.DonorEntry, error) {
	donations, err := r.Donations.Qualifying(ctx, repository.DonationQuery{
		EventID: prize.EventID,
		Start:   prize.StartDrawTime,
		End:     prize.EndDrawTime,
	})
	if err != nil {
		return nil, fmt.Errorf("qualifying donations: %w", err)
	}

	// A donor who declined can never win this prize again; a donor at the
	// per-donor win cap is out until copies are freed.
	excluded := make(map[string]bool, len(claims))
	for _, c := range claims {
		if c.DeclineCount > 0 || c.ActiveCount() >= prize.EffectiveMaxMultiWin() {
			excluded[c.DonorID] = true
		}
	}

	weights := make(map[string]decimal.Decimal)
	for _, d := range donations {
		if excluded[d.DonorID] {
			continue
		}
		if !prize.RegionAllowed(event, d.Country, d.Region) {
			continue
		}
		w, ok := weights[d.DonorID]
		switch {
		case prize.SumDonations:
			weights[d.DonorID] = w.Add(d.Amount)
		case !ok || d.Amount.GreaterThan(w):
			weights[d.DonorID] = d.Amount
		}
	}

	// Direct opt-ins enter at the minimum bid, floor-merged with any
	// donation-derived weight.
	entries, err := r.Prizes.ListEntries(ctx, prize.ID)
	if err != nil {
		return nil, fmt.Errorf("donor entries: %w", err)
	}
	for _, e := range entries {
		if excluded[e.DonorID] {
			continue
		}
		if w, ok := weights[e.DonorID]; !ok || w.LessThan(prize.MinimumBid) {
			weights[e.DonorID] = prize.MinimumBid
		}
	}

	var out []model.DonorEntry
	if prize.RandomDraw {
		for donorID, w := range weights {
			if w.GreaterThanOrEqual(prize.MinimumBid) {
				out = append(out, model.DonorEntry{DonorID: donorID, Weight: w})
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].DonorID < out[j].DonorID })
	} else {
		// Largest donor wins outright. Ties break to the smallest donor ID.
		var best model.DonorEntry
		for donorID, w := range weights {
			switch cmp := w.Cmp(best.Weight); {
			case best.DonorID == "",
				cmp > 0,
				cmp == 0 && donorID < best.DonorID:
				best = model.DonorEntry{DonorID: donorID, Weight: w}
			}
		}
		if best.DonorID != "" {
			out = []model.DonorEntry{best}
		}
	}

	if len(out) == 0 {
		return nil, &NoEligibleDonorsError{PrizeID: prize.ID}
	}
	return out, nil
}
