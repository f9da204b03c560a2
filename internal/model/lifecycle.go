package model

import "time"

// LifecycleState is the derived (never persisted) label summarizing how far a
// prize, and optionally one claim on it, has progressed.
type LifecycleState string

const (
	LifecyclePending           LifecycleState = "pending"
	LifecycleNotifyContributor LifecycleState = "notify_contributor"
	LifecycleDenied            LifecycleState = "denied"
	LifecycleAccepted          LifecycleState = "accepted"
	LifecycleReady             LifecycleState = "ready"
	LifecycleDrawn             LifecycleState = "drawn"
	LifecycleWinnerNotified    LifecycleState = "winner_notified"
	LifecycleClaimed           LifecycleState = "claimed"
	LifecycleNeedsShipping     LifecycleState = "needs_shipping"
	LifecycleShipped           LifecycleState = "shipped"
	LifecycleCompleted         LifecycleState = "completed"
	LifecycleArchived          LifecycleState = "archived"
)

// Lifecycle computes the label for a prize and, when claim is non-nil, one
// claim on it. It sees at most one claim, so the ready label reflects the
// open draw window only; whether the winner quota still has headroom is
// checked by the drawing path. The archived classification overrides any
// in-flight label once the event is archived, flagging the claim for
// administrative follow-up.
func Lifecycle(p *Prize, ev *Event, c *PrizeClaim, now time.Time) LifecycleState {
	state := lifecycleBase(p, c, now)
	if ev != nil && ev.Archived {
		switch state {
		case LifecyclePending, LifecycleNotifyContributor, LifecycleDenied, LifecycleCompleted:
		default:
			return LifecycleArchived
		}
	}
	return state
}

func lifecycleBase(p *Prize, c *PrizeClaim, now time.Time) LifecycleState {
	switch p.State {
	case PrizePending, PrizeFlagged:
		return LifecyclePending
	}
	if !p.ContributorEmailSent {
		return LifecycleNotifyContributor
	}
	if p.State == PrizeDenied {
		return LifecycleDenied
	}

	if c == nil || c.Copies() == 0 {
		if !p.DrawWindowOpen(now) {
			return LifecycleAccepted
		}
		return LifecycleReady
	}

	if c.PendingCount > 0 {
		if !c.WinnerEmailSent {
			return LifecycleDrawn
		}
		return LifecycleWinnerNotified
	}

	if c.AcceptCount > 0 {
		if c.AcceptEmailSentCount < c.AcceptCount {
			return LifecycleClaimed
		}
		if p.RequiresShipping {
			switch c.ShippingState {
			case ShippingPending:
				return LifecycleNeedsShipping
			case ShippingShipped, ShippingAwarded:
				if !c.ShippingEmailSent {
					return LifecycleShipped
				}
			}
		}
		return LifecycleCompleted
	}

	// Every copy declined: nothing further is owed to anyone.
	return LifecycleCompleted
}
