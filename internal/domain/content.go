package domain

import "time"

// ContentType distinguishes the two quota-rationed content kinds.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeVideo   ContentType = "video"
)

// Valid reports whether ct is a known content type.
func (ct ContentType) Valid() bool {
	return ct == ContentTypeArticle || ct == ContentTypeVideo
}

// Category groups articles and videos for browsing.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Article is a published text content item.
type Article struct {
	ID          string
	Title       string
	Content     string
	Excerpt     string
	CoverImage  string
	CategoryID  string
	AuthorID    string
	Tags        []string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Video is a published video content item.
type Video struct {
	ID          string
	Title       string
	Description string
	URL         string
	Thumbnail   string
	Duration    int // seconds
	CategoryID  string
	AuthorID    string
	Tags        []string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
