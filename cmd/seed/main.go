// Command seed populates the database with demo categories, content and one
// user per membership tier (plus an admin), for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/auth"
	"server/internal/domain"
	"server/internal/infra"
)

const seedPassword = "password123"

func main() {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	if err := infra.RunMigrations(dbURL); err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "seed").Logger()

	users := repo.NewUserRepository(pool)
	articles := repo.NewArticleRepository(pool)
	videos := repo.NewVideoRepository(pool)
	categories := repo.NewCategoryRepository(pool)

	today := domain.DayOf(time.Now())
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		exitWithError(err)
	}

	seedUsers := []struct {
		email string
		name  string
		tier  domain.MembershipTier
		role  domain.UserRole
	}{
		{"tier1@example.com", "Tier One", domain.MembershipTier1, domain.UserRoleUser},
		{"tier2@example.com", "Tier Two", domain.MembershipTier2, domain.UserRoleUser},
		{"tier3@example.com", "Tier Three", domain.MembershipTier3, domain.UserRoleUser},
		{"admin@example.com", "Admin", domain.MembershipTier3, domain.UserRoleAdmin},
	}
	for _, su := range seedUsers {
		u := &domain.User{
			ID:           uuid.NewString(),
			Email:        su.email,
			Name:         su.name,
			PasswordHash: hash,
			Provider:     domain.AuthProviderLocal,
			Tier:         su.tier,
			Role:         su.role,
			IsActive:     true,
			Ledger:       domain.NewAccessLedger(today),
		}
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				logger.Info().Str("email", su.email).Msg("user already seeded")
				continue
			}
			exitWithError(err)
		}
		logger.Info().Str("email", su.email).Str("tier", string(su.tier)).Msg("user created")
	}

	seedCategories := []string{"Markets", "Education", "Analysis"}
	categoryIDs := make(map[string]string, len(seedCategories))
	for _, name := range seedCategories {
		c := &domain.Category{ID: uuid.NewString(), Name: name}
		if err := categories.Create(ctx, c); err != nil {
			logger.Info().Str("name", name).Msg("category already seeded")
			continue
		}
		categoryIDs[name] = c.ID
		logger.Info().Str("name", name).Msg("category created")
	}

	for i := 1; i <= 12; i++ {
		a := &domain.Article{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Sample Article %d", i),
			Content:     fmt.Sprintf("Full body of sample article %d.", i),
			Excerpt:     fmt.Sprintf("Excerpt of sample article %d.", i),
			CategoryID:  categoryIDs["Markets"],
			Tags:        []string{"sample"},
			IsPublished: true,
		}
		if err := articles.Create(ctx, a); err != nil {
			exitWithError(err)
		}
	}

	for i := 1; i <= 12; i++ {
		v := &domain.Video{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Sample Video %d", i),
			Description: fmt.Sprintf("Description of sample video %d.", i),
			URL:         fmt.Sprintf("https://videos.example.com/sample-%d", i),
			Duration:    300 + i*30,
			CategoryID:  categoryIDs["Education"],
			Tags:        []string{"sample"},
			IsPublished: true,
		}
		if err := videos.Create(ctx, v); err != nil {
			exitWithError(err)
		}
	}

	logger.Info().Msg("seed complete")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
