package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/charitydrive/backend/internal/metrics"
	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/pkg/notify"
)

// ClaimView is a claim with its prize and derived lifecycle label, as shown
// to the winner in the self-service flow.
type ClaimView struct {
	Claim *model.PrizeClaim    `json:"claim"`
	Prize *model.Prize         `json:"prize"`
	State model.LifecycleState `json:"state"`
}

// ClaimService owns the claim state machine after a draw: donor self-service
// accept/decline, deadline expiration, and shipping progress.
type ClaimService interface {
	// Get returns the claim for the donor-facing view. The auth code stands
	// in for a login; a bad code is indistinguishable from a missing claim.
	Get(ctx context.Context, claimID, authCode string) (*ClaimView, error)
	// Accept moves every pending copy to accepted.
	Accept(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error)
	// Decline moves every pending copy to declined. The claim survives so the
	// donor stays excluded from future draws of this prize.
	Decline(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error)
	// SweepExpired finds past-due pending claims and auto-declines them,
	// freeing quota slots. It does not redraw; that is the caller's next
	// step, one DrawPrize per returned claim.
	SweepExpired(ctx context.Context, eventID string) ([]*model.PrizeClaim, error)
	// MarkShipped records that an accepted claim's prize has shipped and
	// notifies the donor.
	MarkShipped(ctx context.Context, claimID string) (*model.PrizeClaim, error)
}

type claimService struct {
	store    repository.Store
	notifier notify.Client
	now      func() time.Time
}

// NewClaimService creates a ClaimService. notifier can be nil to skip emails.
func NewClaimService(store repository.Store, notifier notify.Client) ClaimService {
	return &claimService{store: store, notifier: notifier, now: time.Now}
}

// authorized loads a claim and checks the auth code in constant time.
// Both a missing claim and a wrong code come back as ErrNotFound so the
// endpoint never confirms a claim exists.
func authorized(ctx context.Context, r repository.Repositories, claimID, authCode string) (*model.PrizeClaim, error) {
	if authCode == "" {
		return nil, repository.ErrNotFound
	}
	c, err := r.Claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(c.AuthCode), []byte(authCode)) != 1 {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (s *claimService) Get(ctx context.Context, claimID, authCode string) (*ClaimView, error) {
	r := s.store.Repos()
	claim, err := authorized(ctx, r, claimID, authCode)
	if err != nil {
		return nil, err
	}
	prize, err := r.Prizes.GetByID(ctx, claim.PrizeID)
	if err != nil {
		return nil, err
	}
	event, err := r.Events.GetByID(ctx, prize.EventID)
	if err != nil {
		return nil, err
	}
	return &ClaimView{
		Claim: claim,
		Prize: prize,
		State: model.Lifecycle(prize, event, claim, s.now()),
	}, nil
}

func (s *claimService) Accept(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
	head, err := authorized(ctx, s.store.Repos(), claimID, authCode)
	if err != nil {
		return nil, err
	}

	var out *model.PrizeClaim
	var prize *model.Prize
	err = s.store.InPrizeTx(ctx, head.PrizeID, func(r repository.Repositories) error {
		claim, err := authorized(ctx, r, claimID, authCode)
		if err != nil {
			return err
		}
		if claim.PendingCount == 0 {
			return ErrNoPendingClaim
		}
		prize, err = r.Prizes.GetByID(ctx, claim.PrizeID)
		if err != nil {
			return err
		}
		event, err := r.Events.GetByID(ctx, prize.EventID)
		if err != nil {
			return err
		}

		if prize.KeyCode {
			if _, err := r.Keys.GetByClaim(ctx, claim.ID); errors.Is(err, repository.ErrNotFound) {
				return &KeyClaimMissingError{ClaimID: claim.ID}
			} else if err != nil {
				return err
			}
		}

		if prize.RequiresShipping {
			donor, err := r.Donors.GetByID(ctx, claim.DonorID)
			if err != nil {
				return err
			}
			if !prize.RegionAllowed(event, donor.Country, donor.Region) {
				return &InvalidRegionError{
					Country:          donor.Country,
					Region:           donor.Region,
					CoordinatorName:  event.CoordinatorName,
					CoordinatorEmail: event.CoordinatorEmail,
				}
			}
		}

		claim.AcceptCount += claim.PendingCount
		claim.PendingCount = 0
		claim.AcceptDeadline = nil
		if prize.RequiresShipping && claim.ShippingState == model.ShippingNotApplicable {
			claim.ShippingState = model.ShippingPending
		}
		if err := r.Claims.Update(ctx, claim); err != nil {
			return err
		}
		out = claim
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendContributorEmail(ctx, prize, out)
	return out, nil
}

func (s *claimService) Decline(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
	head, err := authorized(ctx, s.store.Repos(), claimID, authCode)
	if err != nil {
		return nil, err
	}

	var out *model.PrizeClaim
	err = s.store.InPrizeTx(ctx, head.PrizeID, func(r repository.Repositories) error {
		claim, err := authorized(ctx, r, claimID, authCode)
		if err != nil {
			return err
		}
		if claim.PendingCount == 0 {
			return ErrNoPendingClaim
		}
		claim.DeclineCount += claim.PendingCount
		claim.PendingCount = 0
		claim.AcceptDeadline = nil
		if err := r.Claims.Update(ctx, claim); err != nil {
			return err
		}
		out = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *claimService) SweepExpired(ctx context.Context, eventID string) ([]*model.PrizeClaim, error) {
	now := s.now()
	expired, err := s.store.Repos().Claims.ListExpiredPending(ctx, eventID, now)
	if err != nil {
		return nil, err
	}

	var swept []*model.PrizeClaim
	for _, c := range expired {
		err := s.store.InPrizeTx(ctx, c.PrizeID, func(r repository.Repositories) error {
			claim, err := r.Claims.GetByID(ctx, c.ID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			// Re-check under the prize lock; the donor may have responded
			// between the listing and now.
			if !claim.Expired(now) {
				return nil
			}
			claim.DeclineCount += claim.PendingCount
			claim.PendingCount = 0
			claim.AcceptDeadline = nil
			if err := r.Claims.Update(ctx, claim); err != nil {
				return err
			}
			swept = append(swept, claim)
			return nil
		})
		if err != nil {
			return swept, err
		}
	}

	metrics.ClaimsSweptTotal.Add(float64(len(swept)))
	return swept, nil
}

func (s *claimService) MarkShipped(ctx context.Context, claimID string) (*model.PrizeClaim, error) {
	r := s.store.Repos()
	head, err := r.Claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	var out *model.PrizeClaim
	var prize *model.Prize
	err = s.store.InPrizeTx(ctx, head.PrizeID, func(r repository.Repositories) error {
		claim, err := r.Claims.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		if claim.AcceptCount == 0 {
			return ErrNoPendingClaim
		}
		prize, err = r.Prizes.GetByID(ctx, claim.PrizeID)
		if err != nil {
			return err
		}
		claim.ShippingState = model.ShippingShipped
		if err := r.Claims.Update(ctx, claim); err != nil {
			return err
		}
		out = claim
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendShippingEmail(ctx, prize, out)
	return out, nil
}

// sendContributorEmail tells the prize contributor how many copies have been
// accepted so far. Best effort: on failure the sent count lags and the claim
// shows as "claimed" until a retry.
func (s *claimService) sendContributorEmail(ctx context.Context, prize *model.Prize, claim *model.PrizeClaim) {
	if s.notifier == nil || claim.AcceptEmailSentCount >= claim.AcceptCount {
		return
	}
	err := s.notifier.Send(ctx, notify.Message{
		Kind:      notify.KindContributor,
		EventID:   prize.EventID,
		PrizeID:   prize.ID,
		PrizeName: prize.Name,
		ClaimID:   claim.ID,
		DonorID:   claim.DonorID,
		Copies:    claim.AcceptCount,
	})
	if errors.Is(err, notify.ErrDisabled) {
		return
	}
	if err != nil {
		slog.Error("contributor notification failed", "error", err, "claim_id", claim.ID)
		return
	}

	claim.AcceptEmailSentCount = claim.AcceptCount
	if err := s.store.Repos().Claims.Update(ctx, claim); err != nil {
		slog.Error("record contributor notification failed", "error", err, "claim_id", claim.ID)
	}
}

func (s *claimService) sendShippingEmail(ctx context.Context, prize *model.Prize, claim *model.PrizeClaim) {
	if s.notifier == nil || claim.ShippingEmailSent {
		return
	}
	err := s.notifier.Send(ctx, notify.Message{
		Kind:      notify.KindShipping,
		EventID:   prize.EventID,
		PrizeID:   prize.ID,
		PrizeName: prize.Name,
		ClaimID:   claim.ID,
		DonorID:   claim.DonorID,
	})
	if errors.Is(err, notify.ErrDisabled) {
		return
	}
	if err != nil {
		slog.Error("shipping notification failed", "error", err, "claim_id", claim.ID)
		return
	}

	claim.ShippingEmailSent = true
	if err := s.store.Repos().Claims.Update(ctx, claim); err != nil {
		slog.Error("record shipping notification failed", "error", err, "claim_id", claim.ID)
	}
}
