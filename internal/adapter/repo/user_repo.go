package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const userColumns = `id, email, name, password_hash, avatar, provider, provider_id, tier, role, is_active,
last_rollover_date, articles_accessed_today, videos_accessed_today,
daily_article_count, daily_video_count, lifetime_articles_read, lifetime_videos_watched,
created_at, updated_at`

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a new user with its (empty) access ledger.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	query := `
INSERT INTO users (id, email, name, password_hash, avatar, provider, provider_id, tier, role, is_active, last_rollover_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date)
`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Avatar,
		user.Provider,
		user.ProviderID,
		user.Tier,
		user.Role,
		user.IsActive,
		string(user.Ledger.LastRollover),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateTier changes a user's membership tier. The ledger is deliberately
// left untouched: only future limit lookups use the new tier.
func (r *UserRepositoryPG) UpdateTier(ctx context.Context, id string, tier domain.MembershipTier) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET tier = $2, updated_at = NOW() WHERE id = $1`, id, tier)
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRole changes a user's role.
func (r *UserRepositoryPG) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MutateLedger runs mutate against the user's ledger while holding a row
// lock on the user record. The SELECT ... FOR UPDATE serializes concurrent
// ledger mutations per user, so check-then-act sequences inside mutate are
// atomic with respect to other requests from the same user. The write is
// committed before MutateLedger returns; a commit failure propagates and no
// mutation result should be trusted in that case.
func (r *UserRepositoryPG) MutateLedger(ctx context.Context, id string, mutate func(u *domain.User) (bool, error)) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	write, err := mutate(u)
	if err != nil {
		return nil, err
	}
	if write {
		query := `
UPDATE users
SET last_rollover_date = $2::date,
    articles_accessed_today = $3,
    videos_accessed_today = $4,
    daily_article_count = $5,
    daily_video_count = $6,
    lifetime_articles_read = $7,
    lifetime_videos_watched = $8,
    updated_at = NOW()
WHERE id = $1
`
		_, err = tx.Exec(ctx, query,
			u.ID,
			string(u.Ledger.LastRollover),
			notNil(u.Ledger.ArticlesToday),
			notNil(u.Ledger.VideosToday),
			u.Ledger.DailyArticleCount,
			u.Ledger.DailyVideoCount,
			u.Ledger.LifetimeArticlesRead,
			u.Ledger.LifetimeVideosWatched,
		)
		if err != nil {
			return nil, fmt.Errorf("write ledger: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u        domain.User
		rollover time.Time
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Avatar, &u.Provider, &u.ProviderID,
		&u.Tier, &u.Role, &u.IsActive,
		&rollover, &u.Ledger.ArticlesToday, &u.Ledger.VideosToday,
		&u.Ledger.DailyArticleCount, &u.Ledger.DailyVideoCount,
		&u.Ledger.LifetimeArticlesRead, &u.Ledger.LifetimeVideosWatched,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Ledger.LastRollover = domain.DayOf(rollover)
	return &u, nil
}

func notNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
