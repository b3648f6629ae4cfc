package quota

import (
	"fmt"

	"server/internal/domain"
)

// Decision is the outcome of a quota evaluation. A denial is a normal
// control-flow result, not an error; errors are reserved for
// data-integrity faults such as an unknown tier.
type Decision struct {
	Allowed        bool
	Reason         string
	AlreadyCounted bool // repeat view of content already counted today
}

// Evaluate decides whether a user may view contentID today. The ledger is
// reconciled for today first, so evaluation always operates on a fresh
// snapshot. Re-viewing content already counted today is always free and
// skips the limit check entirely.
func Evaluate(ledger *domain.AccessLedger, policy Policy, tier domain.MembershipTier, ct domain.ContentType, contentID string, today domain.Day) (Decision, error) {
	ledger.Reconcile(today)

	if ledger.HasAccessed(ct, contentID) {
		return Decision{Allowed: true, AlreadyCounted: true}, nil
	}

	limit, err := policy.LimitFor(tier, ct)
	if err != nil {
		return Decision{}, err
	}
	if limit == Unlimited {
		return Decision{Allowed: true}, nil
	}

	if used := ledger.CountFor(ct); used >= int(limit) {
		return Decision{Reason: denialReason(ct, used, limit)}, nil
	}
	return Decision{Allowed: true}, nil
}

// Status summarizes today's usage for one content type, for display on
// listing endpoints and the profile. It never denies anything.
type Status struct {
	Used      int
	Limit     Limit
	Unlimited bool
	Remaining int
}

// StatusFor reports today's usage against the allowance. The ledger is
// reconciled for today first. For an unlimited allowance Remaining is -1.
func StatusFor(ledger *domain.AccessLedger, policy Policy, tier domain.MembershipTier, ct domain.ContentType, today domain.Day) (Status, error) {
	ledger.Reconcile(today)

	limit, err := policy.LimitFor(tier, ct)
	if err != nil {
		return Status{}, err
	}
	used := ledger.CountFor(ct)
	if limit == Unlimited {
		return Status{Used: used, Limit: limit, Unlimited: true, Remaining: -1}, nil
	}
	remaining := int(limit) - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{Used: used, Limit: limit, Remaining: remaining}, nil
}

func denialReason(ct domain.ContentType, used int, limit Limit) string {
	noun := "article"
	if ct == domain.ContentTypeVideo {
		noun = "video"
	}
	return fmt.Sprintf("Daily %s limit reached (%d/%d). Try again tomorrow or upgrade your membership.", noun, used, limit)
}
