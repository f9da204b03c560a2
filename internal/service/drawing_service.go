package service

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/charitydrive/backend/internal/metrics"
	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawResult reports one successful draw: the winner, the total weight of the
// eligible pool, and the value drawn from [0, Sum).
type DrawResult struct {
	WinnerID string          `json:"winner_id"`
	Sum      decimal.Decimal `json:"sum"`
	Result   decimal.Decimal `json:"result"`
}

// KeyDrawResult reports the winners of a bulk key drawing, in draw order.
type KeyDrawResult struct {
	Winners []string `json:"winners"`
}

// DrawingService selects prize winners. Each draw runs inside one
// transaction holding a row lock on the prize, so concurrent draws cannot
// both pass the quota check.
type DrawingService interface {
	// DrawPrize selects one winner for the prize. seed may be nil (system
	// entropy, the production path) or any integer-convertible value; the
	// same seed against the same eligible pool reproduces the same winner.
	DrawPrize(ctx context.Context, prizeID string, seed any) (*DrawResult, error)
	// DrawKeys selects winners for a key-code prize, one per unclaimed key,
	// and awards each winner a key with the workflow collapsed to its
	// terminal state.
	DrawKeys(ctx context.Context, prizeID string, seed any) (*KeyDrawResult, error)
}

type drawingService struct {
	store    repository.Store
	elig     EligibilityService
	notifier notify.Client
	now      func() time.Time
}

// NewDrawingService creates a DrawingService. notifier can be nil to skip
// winner emails.
func NewDrawingService(store repository.Store, elig EligibilityService, notifier notify.Client) DrawingService {
	return &drawingService{store: store, elig: elig, notifier: notifier, now: time.Now}
}

// seedFrom converts a caller-supplied seed to an int64, or draws one from
// crypto/rand when none is given so production draws are not riggable.
func seedFrom(seed any) (int64, error) {
	switch v := seed.(type) {
	case nil:
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read entropy: %w", err)
		}
		return int64(binary.BigEndian.Uint64(b[:])), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, &UnhashableSeedError{Seed: seed}
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &UnhashableSeedError{Seed: seed}
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, &UnhashableSeedError{Seed: seed}
		}
		return n, nil
	default:
		return 0, &UnhashableSeedError{Seed: seed}
	}
}

// pick draws a uniform value in [0, total) and walks the cumulative weight
// list: the first donor whose cumulative weight exceeds the drawn value wins.
func pick(rng *rand.Rand, entries []model.DonorEntry) (winnerID string, total, drawn decimal.Decimal) {
	for _, e := range entries {
		total = total.Add(e.Weight)
	}
	drawn = decimal.NewFromFloat(rng.Float64()).Mul(total)

	var cum decimal.Decimal
	for _, e := range entries {
		cum = cum.Add(e.Weight)
		if cum.GreaterThan(drawn) {
			return e.DonorID, total, drawn
		}
	}
	// Rounding can leave drawn at the upper boundary; the last entry wins.
	return entries[len(entries)-1].DonorID, total, drawn
}

func (s *drawingService) DrawPrize(ctx context.Context, prizeID string, seed any) (*DrawResult, error) {
	seedVal, err := seedFrom(seed)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var res *DrawResult
	var wonPrize *model.Prize
	var wonClaim *model.PrizeClaim

	err = s.store.InPrizeTx(ctx, prizeID, func(r repository.Repositories) error {
		prize, err := r.Prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		event, err := r.Events.GetByID(ctx, prize.EventID)
		if err != nil {
			return err
		}
		claims, err := r.Claims.ListByPrize(ctx, prizeID)
		if err != nil {
			return err
		}

		now := s.now()
		active := 0
		for _, c := range claims {
			active += c.ActiveCountAt(now)
		}
		if active >= prize.MaxWinners {
			return &PrizeAlreadyMaxedError{PrizeID: prizeID, MaxWinners: prize.MaxWinners}
		}

		entries, err := s.elig.EligibleDonors(ctx, r, prize, event, claims)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(seedVal))
		winnerID, total, drawn := pick(rng, entries)

		claim, err := r.Claims.GetByPrizeAndDonor(ctx, prizeID, winnerID)
		switch {
		case err == nil:
			if err := checkQuota(prize, claims, claim.DonorID, claim.ActiveCountAt(now)+1, now); err != nil {
				return err
			}
			claim.PendingCount++
			if claim.AcceptDeadline == nil {
				d := model.AcceptDeadline(now, event.AcceptDeadlineDays)
				claim.AcceptDeadline = &d
			}
			if err := r.Claims.Update(ctx, claim); err != nil {
				return err
			}
		case errors.Is(err, repository.ErrNotFound):
			if err := checkQuota(prize, claims, winnerID, 1, now); err != nil {
				return err
			}
			d := model.AcceptDeadline(now, event.AcceptDeadlineDays)
			claim = &model.PrizeClaim{
				ID:             uuid.NewString(),
				PrizeID:        prizeID,
				DonorID:        winnerID,
				PendingCount:   1,
				AcceptDeadline: &d,
				AuthCode:       uuid.NewString(),
				ShippingState:  initialShippingState(prize),
			}
			if err := r.Claims.Create(ctx, claim); err != nil {
				return err
			}
		default:
			return err
		}

		res = &DrawResult{WinnerID: winnerID, Sum: total, Result: drawn}
		wonPrize, wonClaim = prize, claim
		return nil
	})

	metrics.RecordDraw(drawOutcome(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	s.sendWinnerEmail(ctx, wonPrize, wonClaim)
	return res, nil
}

func (s *drawingService) DrawKeys(ctx context.Context, prizeID string, seed any) (*KeyDrawResult, error) {
	seedVal, err := seedFrom(seed)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &KeyDrawResult{Winners: []string{}}

	err = s.store.InPrizeTx(ctx, prizeID, func(r repository.Repositories) error {
		prize, err := r.Prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		if !prize.KeyCode {
			return ErrNotKeyCode
		}
		event, err := r.Events.GetByID(ctx, prize.EventID)
		if err != nil {
			return err
		}
		claims, err := r.Claims.ListByPrize(ctx, prizeID)
		if err != nil {
			return err
		}
		keys, err := r.Keys.ListUnclaimed(ctx, prizeID)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return &PrizeAlreadyMaxedError{PrizeID: prizeID, MaxWinners: prize.MaxWinners}
		}

		entries, err := s.elig.EligibleDonors(ctx, r, prize, event, claims)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(seedVal))
		for _, key := range keys {
			if len(entries) == 0 {
				break
			}
			winnerID, _, _ := pick(rng, entries)

			// Key claims skip accept/decline and shipping: created directly
			// in the terminal state with every notification flagged sent.
			claim := &model.PrizeClaim{
				ID:                   uuid.NewString(),
				PrizeID:              prizeID,
				DonorID:              winnerID,
				AcceptCount:          1,
				AuthCode:             uuid.NewString(),
				ShippingState:        model.ShippingAwarded,
				WinnerEmailSent:      true,
				AcceptEmailSentCount: 1,
			}
			if err := r.Claims.Create(ctx, claim); err != nil {
				return err
			}
			if err := r.Keys.Assign(ctx, key.ID, claim.ID); err != nil {
				return err
			}
			res.Winners = append(res.Winners, winnerID)
			entries = removeDonor(entries, winnerID)
		}
		return nil
	})

	metrics.RecordDraw(drawOutcome(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return res, nil
}

// checkQuota validates that writing newActive copies for donorID keeps the
// prize within its winner quota. It counts the same copies as the draw
// precondition, so expired pending copies never block the write. The write
// is rejected, never clamped.
func checkQuota(prize *model.Prize, claims []*model.PrizeClaim, donorID string, newActive int, now time.Time) error {
	total := newActive
	for _, c := range claims {
		if c.DonorID == donorID {
			continue
		}
		total += c.ActiveCountAt(now)
	}
	if total > prize.MaxWinners {
		return &TooManyWinnersError{PrizeID: prize.ID, MaxWinners: prize.MaxWinners, Attempted: total}
	}
	return nil
}

func initialShippingState(p *model.Prize) model.ShippingState {
	if p.RequiresShipping {
		return model.ShippingPending
	}
	return model.ShippingNotApplicable
}

func removeDonor(entries []model.DonorEntry, donorID string) []model.DonorEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.DonorID != donorID {
			out = append(out, e)
		}
	}
	return out
}

func drawOutcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

// sendWinnerEmail notifies the winner after the draw commits. Delivery is
// best effort: on failure the sent flag stays false and the claim surfaces
// as "drawn" until a later retry.
func (s *drawingService) sendWinnerEmail(ctx context.Context, prize *model.Prize, claim *model.PrizeClaim) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, notify.Message{
		Kind:      notify.KindWinner,
		EventID:   prize.EventID,
		PrizeID:   prize.ID,
		PrizeName: prize.Name,
		ClaimID:   claim.ID,
		DonorID:   claim.DonorID,
		AuthCode:  claim.AuthCode,
		Copies:    claim.PendingCount,
	})
	if errors.Is(err, notify.ErrDisabled) {
		return
	}
	if err != nil {
		slog.Error("winner notification failed", "error", err, "claim_id", claim.ID)
		return
	}

	claim.WinnerEmailSent = true
	if err := s.store.Repos().Claims.Update(ctx, claim); err != nil {
		slog.Error("record winner notification failed", "error", err, "claim_id", claim.ID)
	}
}
