package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CategoryRepositoryPG implements domain.CategoryRepository backed by PostgreSQL.
type CategoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepositoryPG.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{pool: pool}
}

// Create inserts a new category.
func (r *CategoryRepositoryPG) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Description); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists", category.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Delete removes a category. Content referencing it keeps existing with a
// null category.
func (r *CategoryRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all categories ordered by name.
func (r *CategoryRepositoryPG) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
