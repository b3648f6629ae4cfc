// Command usertier updates a user's membership tier or role. Changing the
// tier never resets the access ledger; only future limit lookups use the
// new tier.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/quota"
)

func main() {
	var (
		idFlag    string
		emailFlag string
		tierFlag  string
		roleFlag  string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&tierFlag, "tier", "", "membership tier to assign (TIER_1, TIER_2, TIER_3)")
	flag.StringVar(&roleFlag, "role", "", "role to assign (user, admin)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	tier := domain.MembershipTier(strings.ToUpper(strings.TrimSpace(tierFlag)))
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(roleFlag)))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if tier == "" && role == "" {
		exitWithError(errors.New("at least one of -tier or -role must be provided"))
	}
	if tier != "" {
		if _, err := quota.DefaultPolicy().LimitFor(tier, domain.ContentTypeArticle); err != nil {
			exitWithError(err)
		}
	}
	if role != "" && role != domain.UserRoleUser && role != domain.UserRoleAdmin {
		exitWithError(fmt.Errorf("unsupported role %q", role))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "usertier").Logger()
	users := repo.NewUserRepository(pool)

	user, err := resolveUser(ctx, users, userID, email)
	if err != nil {
		exitWithError(err)
	}

	if tier != "" {
		if err := users.UpdateTier(ctx, user.ID, tier); err != nil {
			exitWithError(fmt.Errorf("update tier: %w", err))
		}
		logger.Info().Str("user_id", user.ID).Str("tier", string(tier)).Msg("tier updated")
	}
	if role != "" {
		if err := users.UpdateRole(ctx, user.ID, role); err != nil {
			exitWithError(fmt.Errorf("update role: %w", err))
		}
		logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("role updated")
	}
}

func resolveUser(ctx context.Context, users domain.UserRepository, id, email string) (*domain.User, error) {
	if id != "" {
		return users.GetByID(ctx, id)
	}
	return users.GetByEmail(ctx, email)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
