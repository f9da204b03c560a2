package model

import (
	"testing"
	"time"
)

func TestLifecycle_PrizeOnly(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tests := []struct {
		name  string
		prize Prize
		want  LifecycleState
	}{
		{"pending review", Prize{State: PrizePending}, LifecyclePending},
		{"flagged review", Prize{State: PrizeFlagged}, LifecyclePending},
		{
			"accepted but contributor not told",
			Prize{State: PrizeAccepted},
			LifecycleNotifyContributor,
		},
		{
			"denied",
			Prize{State: PrizeDenied, ContributorEmailSent: true},
			LifecycleDenied,
		},
		{
			"ready to draw",
			Prize{State: PrizeAccepted, ContributorEmailSent: true},
			LifecycleReady,
		},
		{
			"window closed",
			Prize{State: PrizeAccepted, ContributorEmailSent: true, EndDrawTime: &past},
			LifecycleAccepted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lifecycle(&tt.prize, nil, nil, now); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLifecycle_WithClaim(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	drawable := Prize{State: PrizeAccepted, ContributorEmailSent: true}
	shipping := Prize{State: PrizeAccepted, ContributorEmailSent: true, RequiresShipping: true}

	tests := []struct {
		name  string
		prize Prize
		claim PrizeClaim
		want  LifecycleState
	}{
		{"drawn, winner not told", drawable, PrizeClaim{PendingCount: 1}, LifecycleDrawn},
		{
			"winner notified",
			drawable,
			PrizeClaim{PendingCount: 1, WinnerEmailSent: true},
			LifecycleWinnerNotified,
		},
		{
			"accepted, contributor not told",
			drawable,
			PrizeClaim{AcceptCount: 1, WinnerEmailSent: true},
			LifecycleClaimed,
		},
		{
			"no shipping, fully notified",
			drawable,
			PrizeClaim{AcceptCount: 1, WinnerEmailSent: true, AcceptEmailSentCount: 1},
			LifecycleCompleted,
		},
		{
			"awaiting shipment",
			shipping,
			PrizeClaim{AcceptCount: 1, WinnerEmailSent: true, AcceptEmailSentCount: 1, ShippingState: ShippingPending},
			LifecycleNeedsShipping,
		},
		{
			"shipped, donor not told",
			shipping,
			PrizeClaim{AcceptCount: 1, WinnerEmailSent: true, AcceptEmailSentCount: 1, ShippingState: ShippingShipped},
			LifecycleShipped,
		},
		{
			"shipped and notified",
			shipping,
			PrizeClaim{AcceptCount: 1, WinnerEmailSent: true, AcceptEmailSentCount: 1, ShippingState: ShippingShipped, ShippingEmailSent: true},
			LifecycleCompleted,
		},
		{
			"every copy declined",
			drawable,
			PrizeClaim{DeclineCount: 2, WinnerEmailSent: true},
			LifecycleCompleted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lifecycle(&tt.prize, nil, &tt.claim, now); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLifecycle_ArchivedEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	archived := &Event{Archived: true}

	// In-flight claims surface as archived for administrative follow-up.
	prize := &Prize{State: PrizeAccepted, ContributorEmailSent: true}
	claim := &PrizeClaim{PendingCount: 1, WinnerEmailSent: true}
	if got := Lifecycle(prize, archived, claim, now); got != LifecycleArchived {
		t.Errorf("expected archived, got %s", got)
	}

	// Terminal and pre-draw review states keep their own label.
	done := &PrizeClaim{AcceptCount: 1, WinnerEmailSent: true, AcceptEmailSentCount: 1}
	if got := Lifecycle(prize, archived, done, now); got != LifecycleCompleted {
		t.Errorf("expected completed, got %s", got)
	}
	pending := &Prize{State: PrizePending}
	if got := Lifecycle(pending, archived, nil, now); got != LifecyclePending {
		t.Errorf("expected pending, got %s", got)
	}
}
