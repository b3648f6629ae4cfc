package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const articleColumns = `id, title, content, excerpt, cover_image, category_id, author_id, tags, is_published, created_at, updated_at`

// ArticleRepositoryPG implements domain.ArticleRepository backed by PostgreSQL.
type ArticleRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepositoryPG.
func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepositoryPG {
	return &ArticleRepositoryPG{pool: pool}
}

// Create inserts a new article.
func (r *ArticleRepositoryPG) Create(ctx context.Context, article *domain.Article) error {
	query := `
INSERT INTO articles (id, title, content, excerpt, cover_image, category_id, author_id, tags, is_published)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid, $8, $9)
`
	_, err := r.pool.Exec(ctx, query,
		article.ID, article.Title, article.Content, article.Excerpt, article.CoverImage,
		article.CategoryID, article.AuthorID, notNil(article.Tags), article.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// Update overwrites an existing article.
func (r *ArticleRepositoryPG) Update(ctx context.Context, article *domain.Article) error {
	query := `
UPDATE articles
SET title = $2, content = $3, excerpt = $4, cover_image = $5,
    category_id = NULLIF($6, '')::uuid, tags = $7, is_published = $8, updated_at = NOW()
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query,
		article.ID, article.Title, article.Content, article.Excerpt, article.CoverImage,
		article.CategoryID, notNil(article.Tags), article.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an article.
func (r *ArticleRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches an article by UUID.
func (r *ArticleRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	return scanArticle(row)
}

// ListPublished returns published articles, newest first, optionally
// filtered by category.
func (r *ArticleRepositoryPG) ListPublished(ctx context.Context, categoryID string, limit, offset int) ([]domain.Article, error) {
	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE is_published
  AND ($1 = '' OR category_id = NULLIF($1, '')::uuid)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		a                    domain.Article
		categoryID, authorID *string
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.CoverImage,
		&categoryID, &authorID, &a.Tags, &a.IsPublished, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	if categoryID != nil {
		a.CategoryID = *categoryID
	}
	if authorID != nil {
		a.AuthorID = *authorID
	}
	return &a, nil
}
