package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const videoColumns = `id, title, description, url, thumbnail, duration, category_id, author_id, tags, is_published, created_at, updated_at`

// VideoRepositoryPG implements domain.VideoRepository backed by PostgreSQL.
type VideoRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepositoryPG.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepositoryPG {
	return &VideoRepositoryPG{pool: pool}
}

// Create inserts a new video.
func (r *VideoRepositoryPG) Create(ctx context.Context, video *domain.Video) error {
	query := `
INSERT INTO videos (id, title, description, url, thumbnail, duration, category_id, author_id, tags, is_published)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, NULLIF($8, '')::uuid, $9, $10)
`
	_, err := r.pool.Exec(ctx, query,
		video.ID, video.Title, video.Description, video.URL, video.Thumbnail, video.Duration,
		video.CategoryID, video.AuthorID, notNil(video.Tags), video.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// Update overwrites an existing video.
func (r *VideoRepositoryPG) Update(ctx context.Context, video *domain.Video) error {
	query := `
UPDATE videos
SET title = $2, description = $3, url = $4, thumbnail = $5, duration = $6,
    category_id = NULLIF($7, '')::uuid, tags = $8, is_published = $9, updated_at = NOW()
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query,
		video.ID, video.Title, video.Description, video.URL, video.Thumbnail, video.Duration,
		video.CategoryID, notNil(video.Tags), video.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a video.
func (r *VideoRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a video by UUID.
func (r *VideoRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	return scanVideo(row)
}

// ListPublished returns published videos, newest first, optionally filtered
// by category.
func (r *VideoRepositoryPG) ListPublished(ctx context.Context, categoryID string, limit, offset int) ([]domain.Video, error) {
	query := `
SELECT ` + videoColumns + `
FROM videos
WHERE is_published
  AND ($1 = '' OR category_id = NULLIF($1, '')::uuid)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var (
		v                    domain.Video
		categoryID, authorID *string
	)
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.URL, &v.Thumbnail, &v.Duration,
		&categoryID, &authorID, &v.Tags, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}
	if categoryID != nil {
		v.CategoryID = *categoryID
	}
	if authorID != nil {
		v.AuthorID = *authorID
	}
	return &v, nil
}
