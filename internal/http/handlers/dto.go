package handlers

import (
	"time"

	"server/internal/access"
	"server/internal/domain"
	"server/internal/quota"
)

type quotaStatusDTO struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"` // -1 when unlimited
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type quotaOverviewDTO struct {
	Tier     string         `json:"tier"`
	Articles quotaStatusDTO `json:"articles"`
	Videos   quotaStatusDTO `json:"videos"`
}

func statusDTO(s quota.Status) quotaStatusDTO {
	return quotaStatusDTO{Used: s.Used, Limit: int(s.Limit), Remaining: s.Remaining, Unlimited: s.Unlimited}
}

func overviewDTO(o *access.Overview) quotaOverviewDTO {
	return quotaOverviewDTO{
		Tier:     string(o.Tier),
		Articles: statusDTO(o.Articles),
		Videos:   statusDTO(o.Videos),
	}
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Tier      string    `json:"tier"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Tier:      string(u.Tier),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type articleDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	AuthorID    string    `json:"author_id,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toArticleDTO(a *domain.Article, includeContent bool) articleDTO {
	dto := articleDTO{
		ID:          a.ID,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		CoverImage:  a.CoverImage,
		CategoryID:  a.CategoryID,
		AuthorID:    a.AuthorID,
		Tags:        a.Tags,
		IsPublished: a.IsPublished,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if includeContent {
		dto.Content = a.Content
	}
	return dto
}

type videoDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Duration    int       `json:"duration"`
	CategoryID  string    `json:"category_id,omitempty"`
	AuthorID    string    `json:"author_id,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toVideoDTO(v *domain.Video, includeURL bool) videoDTO {
	dto := videoDTO{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		CategoryID:  v.CategoryID,
		AuthorID:    v.AuthorID,
		Tags:        v.Tags,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if includeURL {
		dto.URL = v.URL
	}
	return dto
}

type categoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryDTO(c domain.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}
