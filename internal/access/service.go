// Package access wires the quota engine to durable storage. Evaluation and
// recording together form a check-then-act sequence against the user's
// ledger, so both run inside UserRepository.MutateLedger, which serializes
// ledger mutations per user. Two concurrent requests racing for the last
// remaining unit of quota can therefore never both be recorded.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/quota"
)

// Service authorizes and records content views against the daily quota.
type Service struct {
	users   domain.UserRepository
	policy  quota.Policy
	logger  zerolog.Logger
	metrics *metrics.Collector
}

// NewService creates an access service. The collector may be nil in tests.
func NewService(users domain.UserRepository, policy quota.Policy, logger zerolog.Logger, collector *metrics.Collector) *Service {
	return &Service{users: users, policy: policy, logger: logger, metrics: collector}
}

// AuthorizeView evaluates the quota for one content view and, when the view
// is allowed and not yet counted today, records it durably. A persistence
// failure aborts the grant: the caller never sees an allowed decision whose
// recording did not survive.
func (s *Service) AuthorizeView(ctx context.Context, userID string, ct domain.ContentType, contentID string, now time.Time) (quota.Decision, error) {
	if !ct.Valid() {
		return quota.Decision{}, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, ct)
	}
	today := domain.DayOf(now)

	var decision quota.Decision
	_, err := s.users.MutateLedger(ctx, userID, func(u *domain.User) (bool, error) {
		rolled := u.Ledger.Reconcile(today)
		if rolled && s.metrics != nil {
			s.metrics.RecordRollover()
		}

		d, evalErr := quota.Evaluate(&u.Ledger, s.policy, u.Tier, ct, contentID, today)
		if evalErr != nil {
			return false, evalErr
		}
		decision = d

		if !d.Allowed || d.AlreadyCounted {
			// Persist the rollover even when nothing new is recorded so the
			// stored sets never carry entries from a prior day.
			return rolled, nil
		}
		u.Ledger.Record(ct, contentID, today)
		return true, nil
	})
	if err != nil {
		return quota.Decision{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordView(ct, decision)
	}
	if !decision.Allowed {
		s.logger.Info().
			Str("user_id", userID).
			Str("content_type", string(ct)).
			Str("content_id", contentID).
			Msg("daily limit reached")
	}
	return decision, nil
}

// Overview summarizes today's usage for the profile and listing endpoints.
type Overview struct {
	Tier     domain.MembershipTier
	Articles quota.Status
	Videos   quota.Status
}

// Overview reports today's usage for both content types. It reconciles a
// local copy of the ledger only; listing endpoints never mutate stored
// state.
func (s *Service) Overview(ctx context.Context, userID string, now time.Time) (*Overview, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.OverviewFor(u, now)
}

// OverviewFor computes the usage overview for an already-loaded user.
func (s *Service) OverviewFor(u *domain.User, now time.Time) (*Overview, error) {
	today := domain.DayOf(now)
	ledger := u.Ledger

	articles, err := quota.StatusFor(&ledger, s.policy, u.Tier, domain.ContentTypeArticle, today)
	if err != nil {
		return nil, err
	}
	videos, err := quota.StatusFor(&ledger, s.policy, u.Tier, domain.ContentTypeVideo, today)
	if err != nil {
		return nil, err
	}
	return &Overview{Tier: u.Tier, Articles: articles, Videos: videos}, nil
}
