package quota

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"server/internal/domain"
)

const today = domain.Day("2025-06-02")

func ledgerWith(articles ...string) domain.AccessLedger {
	l := domain.NewAccessLedger(today)
	for _, id := range articles {
		l.Record(domain.ContentTypeArticle, id, today)
	}
	return l
}

func TestEvaluateAllowsUnderLimit(t *testing.T) {
	ledger := ledgerWith("a1", "a2")
	d, err := Evaluate(&ledger, DefaultPolicy(), domain.MembershipTier1, domain.ContentTypeArticle, "a3", today)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.Allowed || d.AlreadyCounted {
		t.Fatalf("Evaluate() = %+v, want allowed new view", d)
	}
}

func TestEvaluateDeniesAtLimit(t *testing.T) {
	ledger := ledgerWith("a1", "a2", "a3")
	d, err := Evaluate(&ledger, DefaultPolicy(), domain.MembershipTier1, domain.ContentTypeArticle, "a4", today)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.Allowed {
		t.Fatal("fourth new article must be denied on TIER_1")
	}
	if !strings.Contains(d.Reason, "3/3") {
		t.Fatalf("reason %q does not mention 3/3", d.Reason)
	}
	if !strings.Contains(d.Reason, "article") {
		t.Fatalf("reason %q does not name the content type", d.Reason)
	}
}

func TestEvaluateFreeReviewAtLimit(t *testing.T) {
	// Quota fully depleted; every already-counted id stays viewable.
	ledger := ledgerWith("a1", "a2", "a3")
	for _, id := range []string{"a1", "a2", "a3"} {
		d, err := Evaluate(&ledger, DefaultPolicy(), domain.MembershipTier1, domain.ContentTypeArticle, id, today)
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", id, err)
		}
		if !d.Allowed || !d.AlreadyCounted {
			t.Fatalf("Evaluate(%q) = %+v, want free re-view", id, d)
		}
	}
}

func TestEvaluateUnlimitedTier(t *testing.T) {
	ledger := domain.NewAccessLedger(today)
	for i := 0; i < 100; i++ {
		id := "v" + strconv.Itoa(i)
		d, err := Evaluate(&ledger, DefaultPolicy(), domain.MembershipTier3, domain.ContentTypeVideo, id, today)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if !d.Allowed {
			t.Fatalf("unlimited tier denied at iteration %d", i)
		}
		ledger.Record(domain.ContentTypeVideo, id, today)
	}
	// Recording still tracks the set and lifetime counters for reporting.
	if ledger.DailyVideoCount != len(ledger.VideosToday) {
		t.Fatalf("count %d != set size %d", ledger.DailyVideoCount, len(ledger.VideosToday))
	}
}

func TestEvaluateReconcilesBeforeDeciding(t *testing.T) {
	// Exhausted yesterday; today the same id is new and allowed again.
	ledger := domain.AccessLedger{
		LastRollover:      domain.Day("2025-06-01"),
		ArticlesToday:     []string{"a1", "a2", "a3"},
		DailyArticleCount: 3,
	}
	d, err := Evaluate(&ledger, DefaultPolicy(), domain.MembershipTier1, domain.ContentTypeArticle, "a1", today)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.Allowed || d.AlreadyCounted {
		t.Fatalf("Evaluate() after rollover = %+v, want allowed new view", d)
	}
	if ledger.LastRollover != today || ledger.DailyArticleCount != 0 {
		t.Fatalf("ledger not reconciled: %+v", ledger)
	}
}

func TestEvaluateUnknownTier(t *testing.T) {
	ledger := domain.NewAccessLedger(today)
	_, err := Evaluate(&ledger, DefaultPolicy(), "GOLD", domain.ContentTypeArticle, "a1", today)
	if !errors.Is(err, domain.ErrUnknownTier) {
		t.Fatalf("Evaluate() error = %v, want ErrUnknownTier", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name          string
		tier          domain.MembershipTier
		articles      []string
		wantUsed      int
		wantRemaining int
		wantUnlimited bool
	}{
		{name: "fresh tier1", tier: domain.MembershipTier1, wantUsed: 0, wantRemaining: 3},
		{name: "partially used", tier: domain.MembershipTier1, articles: []string{"a1", "a2"}, wantUsed: 2, wantRemaining: 1},
		{name: "exhausted", tier: domain.MembershipTier1, articles: []string{"a1", "a2", "a3"}, wantUsed: 3, wantRemaining: 0},
		{name: "over after downgrade", tier: domain.MembershipTier1, articles: []string{"a1", "a2", "a3", "a4"}, wantUsed: 4, wantRemaining: 0},
		{name: "unlimited", tier: domain.MembershipTier3, articles: []string{"a1"}, wantUsed: 1, wantRemaining: -1, wantUnlimited: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := domain.NewAccessLedger(today)
			for _, id := range tc.articles {
				ledger.Record(domain.ContentTypeArticle, id, today)
			}
			s, err := StatusFor(&ledger, DefaultPolicy(), tc.tier, domain.ContentTypeArticle, today)
			if err != nil {
				t.Fatalf("StatusFor() error = %v", err)
			}
			if s.Used != tc.wantUsed || s.Remaining != tc.wantRemaining || s.Unlimited != tc.wantUnlimited {
				t.Fatalf("StatusFor() = %+v", s)
			}
		})
	}
}
