package service

import (
	"errors"
	"fmt"
)

// ErrNoPendingClaim is returned when a donor accepts or declines a claim with
// no pending copies left.
var ErrNoPendingClaim = errors.New("claim has no pending copies")

// ErrNotKeyCode is returned when a key-only operation targets a regular prize.
var ErrNotKeyCode = errors.New("prize is not a key-code prize")

// NoEligibleDonorsError reports an eligibility pass that produced an empty
// pool. Recoverable: the caller may retry once more donations arrive.
type NoEligibleDonorsError struct {
	PrizeID string
}

func (e *NoEligibleDonorsError) Error() string {
	return fmt.Sprintf("prize %s has no eligible donors", e.PrizeID)
}

// PrizeAlreadyMaxedError reports a draw against a prize whose winner quota is
// already filled.
type PrizeAlreadyMaxedError struct {
	PrizeID    string
	MaxWinners int
}

func (e *PrizeAlreadyMaxedError) Error() string {
	if e.MaxWinners == 1 {
		return fmt.Sprintf("prize %s already has a winner", e.PrizeID)
	}
	return fmt.Sprintf("prize %s already has the maximum number of winners (%d)", e.PrizeID, e.MaxWinners)
}

// UnhashableSeedError reports a caller-supplied seed that cannot seed a
// deterministic generator.
type UnhashableSeedError struct {
	Seed any
}

func (e *UnhashableSeedError) Error() string {
	return fmt.Sprintf("seed %v (%T) cannot seed a deterministic generator", e.Seed, e.Seed)
}

// TooManyWinnersError reports a claim write that would push the prize past
// its winner quota. The underlying rows are left unmodified.
type TooManyWinnersError struct {
	PrizeID    string
	MaxWinners int
	Attempted  int
}

func (e *TooManyWinnersError) Error() string {
	return fmt.Sprintf("prize %s allows %d winners; write would make %d", e.PrizeID, e.MaxWinners, e.Attempted)
}

// InvalidRegionError reports an accept from a region the prize cannot ship
// to. When the event has a coordinator, the message points the donor at them.
type InvalidRegionError struct {
	Country          string
	Region           string
	CoordinatorName  string
	CoordinatorEmail string
}

func (e *InvalidRegionError) Error() string {
	msg := "This prize cannot be shipped to your country or region"
	if e.CoordinatorName != "" {
		return fmt.Sprintf("%s. Please contact the prize coordinator %s (%s) for assistance", msg, e.CoordinatorName, e.CoordinatorEmail)
	}
	return msg
}

// DuplicateKeyError reports a key import colliding with a code that already
// exists anywhere in the system.
type DuplicateKeyError struct {
	Code string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already exists", e.Code)
}

// KeyClaimMissingError reports a key-code claim with no key attached. Key
// claims are only ever created alongside a key, so this is data corruption.
type KeyClaimMissingError struct {
	ClaimID string
}

func (e *KeyClaimMissingError) Error() string {
	return fmt.Sprintf("claim %s belongs to a key-code prize but has no key attached", e.ClaimID)
}
