package domain

import "context"

// UserRepository defines access methods for users. MutateLedger is the
// single write path for the access ledger: implementations must run mutate
// against a ledger snapshot that no concurrent request can also be mutating,
// and persist the result before returning. mutate reports whether the user
// record needs to be written back.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateTier(ctx context.Context, id string, tier MembershipTier) error
	UpdateRole(ctx context.Context, id string, role UserRole) error
	MutateLedger(ctx context.Context, id string, mutate func(u *User) (bool, error)) (*User, error)
}

// ArticleRepository defines persistence for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Article, error)
	ListPublished(ctx context.Context, categoryID string, limit, offset int) ([]Article, error)
}

// VideoRepository defines persistence for videos.
type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Video, error)
	ListPublished(ctx context.Context, categoryID string, limit, offset int) ([]Video, error)
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Category, error)
}
