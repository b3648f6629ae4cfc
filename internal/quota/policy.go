// Package quota implements the daily content-access quota engine: the
// membership policy table and the decision logic exercised by the article
// and video detail endpoints. The engine is pure; the current day is always
// passed in by the caller and the ledger it operates on belongs to the user
// entity in the domain package.
package quota

import (
	"fmt"

	"server/internal/domain"
)

// Limit is a per-day allowance of distinct content items.
type Limit int

// Unlimited means no cap is enforced for the content type.
const Unlimited Limit = -1

// Allowance holds one tier's per-content-type daily limits.
type Allowance struct {
	Articles Limit
	Videos   Limit
}

// Policy maps membership tiers to daily allowances. It is loaded once at
// process start and never mutated afterwards.
type Policy map[domain.MembershipTier]Allowance

// DefaultPolicy returns the built-in membership table.
func DefaultPolicy() Policy {
	return Policy{
		domain.MembershipTier1: {Articles: 3, Videos: 3},
		domain.MembershipTier2: {Articles: 10, Videos: 10},
		domain.MembershipTier3: {Articles: Unlimited, Videos: Unlimited},
	}
}

// LimitFor returns the daily allowance for a tier and content type. A tier
// absent from the policy is a data-integrity fault and yields
// domain.ErrUnknownTier; it is never silently defaulted.
func (p Policy) LimitFor(tier domain.MembershipTier, ct domain.ContentType) (Limit, error) {
	allowance, ok := p[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tier)
	}
	switch ct {
	case domain.ContentTypeArticle:
		return allowance.Articles, nil
	case domain.ContentTypeVideo:
		return allowance.Videos, nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, ct)
}
