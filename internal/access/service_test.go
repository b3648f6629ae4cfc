package access

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/quota"
)

var (
	day1 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
)

// memoryUserRepo is an in-memory domain.UserRepository whose MutateLedger
// serializes mutations with a mutex, mirroring the row lock of the
// PostgreSQL implementation.
type memoryUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	failWrites bool
	writes     int
}

func newMemoryUserRepo(users ...*domain.User) *memoryUserRepo {
	m := &memoryUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = cloneUser(u)
	}
	return m
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Ledger.ArticlesToday = append([]string(nil), u.Ledger.ArticlesToday...)
	clone.Ledger.VideosToday = append([]string(nil), u.Ledger.VideosToday...)
	return &clone
}

func (m *memoryUserRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryUserRepo) UpdateTier(_ context.Context, id string, tier domain.MembershipTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Tier = tier
	return nil
}

func (m *memoryUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memoryUserRepo) MutateLedger(_ context.Context, id string, mutate func(u *domain.User) (bool, error)) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := cloneUser(stored)
	write, err := mutate(clone)
	if err != nil {
		return nil, err
	}
	if write {
		if m.failWrites {
			return nil, errors.New("storage write failed")
		}
		m.users[id] = cloneUser(clone)
		m.writes++
	}
	return clone, nil
}

func tier1User() *domain.User {
	return &domain.User{
		ID:     "u1",
		Email:  "tier1@example.com",
		Tier:   domain.MembershipTier1,
		Role:   domain.UserRoleUser,
		Ledger: domain.NewAccessLedger(domain.DayOf(day1)),
	}
}

func newTestService(users domain.UserRepository) *Service {
	return NewService(users, quota.DefaultPolicy(), zerolog.Nop(), nil)
}

func TestDailyLimitFlow(t *testing.T) {
	repo := newMemoryUserRepo(tier1User())
	svc := newTestService(repo)
	ctx := context.Background()

	view := func(id string) quota.Decision {
		t.Helper()
		d, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, id, day1)
		if err != nil {
			t.Fatalf("AuthorizeView(%q) error = %v", id, err)
		}
		return d
	}

	if d := view("a1"); !d.Allowed || d.AlreadyCounted {
		t.Fatalf("first view of a1 = %+v", d)
	}
	if d := view("a1"); !d.Allowed || !d.AlreadyCounted {
		t.Fatalf("repeat view of a1 = %+v", d)
	}

	u, _ := repo.GetByID(ctx, "u1")
	if u.Ledger.DailyArticleCount != 1 {
		t.Fatalf("count after repeat view = %d, want 1", u.Ledger.DailyArticleCount)
	}

	view("a2")
	view("a3")

	d, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a4", day1)
	if err != nil {
		t.Fatalf("AuthorizeView(a4) error = %v", err)
	}
	if d.Allowed {
		t.Fatal("a4 must be denied at 3/3")
	}
	if !strings.Contains(d.Reason, "3/3") {
		t.Fatalf("denial reason %q does not mention 3/3", d.Reason)
	}

	// Already-counted ids stay freely viewable after exhaustion.
	if d := view("a1"); !d.Allowed {
		t.Fatalf("a1 after exhaustion = %+v", d)
	}

	u, _ = repo.GetByID(ctx, "u1")
	if u.Ledger.DailyArticleCount != 3 || u.Ledger.LifetimeArticlesRead != 3 {
		t.Fatalf("final ledger = %+v", u.Ledger)
	}
}

func TestRolloverOnFirstAccessOfNewDay(t *testing.T) {
	user := tier1User()
	for _, id := range []string{"a1", "a2", "a3"} {
		user.Ledger.Record(domain.ContentTypeArticle, id, domain.DayOf(day1))
	}
	repo := newMemoryUserRepo(user)
	svc := newTestService(repo)

	// Exhausted yesterday; the same id is new again after midnight.
	d, err := svc.AuthorizeView(context.Background(), "u1", domain.ContentTypeArticle, "a1", day2)
	if err != nil {
		t.Fatalf("AuthorizeView error = %v", err)
	}
	if !d.Allowed || d.AlreadyCounted {
		t.Fatalf("view after rollover = %+v", d)
	}

	u, _ := repo.GetByID(context.Background(), "u1")
	if u.Ledger.LastRollover != domain.DayOf(day2) {
		t.Fatalf("LastRollover = %q", u.Ledger.LastRollover)
	}
	if u.Ledger.DailyArticleCount != 1 || len(u.Ledger.ArticlesToday) != 1 {
		t.Fatalf("ledger after rollover = %+v", u.Ledger)
	}
	if u.Ledger.LifetimeArticlesRead != 4 {
		t.Fatalf("LifetimeArticlesRead = %d, want 4", u.Ledger.LifetimeArticlesRead)
	}
}

func TestUnknownTierFailsFast(t *testing.T) {
	user := tier1User()
	user.Tier = "TIER_9"
	repo := newMemoryUserRepo(user)
	svc := newTestService(repo)

	_, err := svc.AuthorizeView(context.Background(), "u1", domain.ContentTypeArticle, "a1", day1)
	if !errors.Is(err, domain.ErrUnknownTier) {
		t.Fatalf("error = %v, want ErrUnknownTier", err)
	}

	u, _ := repo.GetByID(context.Background(), "u1")
	if u.Ledger.DailyArticleCount != 0 {
		t.Fatalf("ledger mutated on unknown tier: %+v", u.Ledger)
	}
}

func TestRepeatViewDoesNotWrite(t *testing.T) {
	repo := newMemoryUserRepo(tier1User())
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a1", day1); err != nil {
		t.Fatal(err)
	}
	writesAfterFirst := repo.writes
	if _, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a1", day1); err != nil {
		t.Fatal(err)
	}
	if repo.writes != writesAfterFirst {
		t.Fatalf("repeat view wrote the ledger: %d -> %d", writesAfterFirst, repo.writes)
	}
}

func TestPersistenceFailureAbortsGrant(t *testing.T) {
	repo := newMemoryUserRepo(tier1User())
	repo.failWrites = true
	svc := newTestService(repo)

	_, err := svc.AuthorizeView(context.Background(), "u1", domain.ContentTypeArticle, "a1", day1)
	if err == nil {
		t.Fatal("expected error when the durable write fails")
	}

	repo.failWrites = false
	u, _ := repo.GetByID(context.Background(), "u1")
	if u.Ledger.DailyArticleCount != 0 {
		t.Fatalf("failed write leaked into storage: %+v", u.Ledger)
	}
}

func TestConcurrentRequestsCannotExceedLimit(t *testing.T) {
	user := tier1User()
	user.Ledger.Record(domain.ContentTypeArticle, "a1", domain.DayOf(day1))
	user.Ledger.Record(domain.ContentTypeArticle, "a2", domain.DayOf(day1))
	repo := newMemoryUserRepo(user)
	svc := newTestService(repo)

	// One unit left; two different new ids race for it.
	var wg sync.WaitGroup
	results := make([]quota.Decision, 2)
	for i, id := range []string{"x", "y"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			d, err := svc.AuthorizeView(context.Background(), "u1", domain.ContentTypeArticle, id, day1)
			if err != nil {
				t.Errorf("AuthorizeView(%q) error = %v", id, err)
				return
			}
			results[i] = d
		}(i, id)
	}
	wg.Wait()

	allowed := 0
	for _, d := range results {
		if d.Allowed {
			allowed++
		}
	}
	if allowed != 1 {
		t.Fatalf("allowed = %d, want exactly 1", allowed)
	}

	u, _ := repo.GetByID(context.Background(), "u1")
	if u.Ledger.DailyArticleCount != 3 {
		t.Fatalf("DailyArticleCount = %d, want 3", u.Ledger.DailyArticleCount)
	}
}

func TestTierChangeKeepsLedger(t *testing.T) {
	repo := newMemoryUserRepo(tier1User())
	svc := newTestService(repo)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		if _, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, id, day1); err != nil {
			t.Fatal(err)
		}
	}

	// Upgrade: counted usage carries over, more headroom immediately.
	if err := repo.UpdateTier(ctx, "u1", domain.MembershipTier2); err != nil {
		t.Fatal(err)
	}
	d, err := svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a4", day1)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Allowed {
		t.Fatalf("view after upgrade = %+v", d)
	}

	// Downgrade while over the new limit: new content denied, counted
	// content stays viewable.
	if err := repo.UpdateTier(ctx, "u1", domain.MembershipTier1); err != nil {
		t.Fatal(err)
	}
	if d, err = svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a5", day1); err != nil {
		t.Fatal(err)
	}
	if d.Allowed {
		t.Fatal("new content must be denied after downgrade over the limit")
	}
	if d, err = svc.AuthorizeView(ctx, "u1", domain.ContentTypeArticle, "a4", day1); err != nil {
		t.Fatal(err)
	}
	if !d.Allowed || !d.AlreadyCounted {
		t.Fatalf("counted content after downgrade = %+v", d)
	}
}

func TestOverview(t *testing.T) {
	user := tier1User()
	user.Ledger.Record(domain.ContentTypeArticle, "a1", domain.DayOf(day1))
	repo := newMemoryUserRepo(user)
	svc := newTestService(repo)

	o, err := svc.Overview(context.Background(), "u1", day1)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if o.Tier != domain.MembershipTier1 {
		t.Fatalf("Tier = %q", o.Tier)
	}
	if o.Articles.Used != 1 || o.Articles.Remaining != 2 {
		t.Fatalf("Articles = %+v", o.Articles)
	}
	if o.Videos.Used != 0 || o.Videos.Remaining != 3 {
		t.Fatalf("Videos = %+v", o.Videos)
	}

	// Overview across midnight reports a fresh day without writing it back.
	o, err = svc.Overview(context.Background(), "u1", day2)
	if err != nil {
		t.Fatal(err)
	}
	if o.Articles.Used != 0 {
		t.Fatalf("Articles.Used after midnight = %d, want 0", o.Articles.Used)
	}
	u, _ := repo.GetByID(context.Background(), "u1")
	if u.Ledger.LastRollover != domain.DayOf(day1) {
		t.Fatal("Overview must not persist a rollover")
	}
}

func TestAuthorizeViewRejectsUnknownContentType(t *testing.T) {
	svc := newTestService(newMemoryUserRepo(tier1User()))
	_, err := svc.AuthorizeView(context.Background(), "u1", "podcast", "p1", day1)
	if !errors.Is(err, domain.ErrUnknownContentType) {
		t.Fatalf("error = %v, want ErrUnknownContentType", err)
	}
}
