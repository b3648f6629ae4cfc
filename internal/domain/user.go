package domain

import "time"

// UserRole enumerates supported roles. Administrators bypass the content
// quota entirely.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// MembershipTier enumerates membership levels. The tier determines the
// user's daily content allowances via quota.Policy.
type MembershipTier string

const (
	MembershipTier1 MembershipTier = "TIER_1"
	MembershipTier2 MembershipTier = "TIER_2"
	MembershipTier3 MembershipTier = "TIER_3"
)

// AuthProvider identifies how an account was established.
type AuthProvider string

const (
	AuthProviderLocal    AuthProvider = "local"
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderFacebook AuthProvider = "facebook"
)

// User represents an account within the platform. The access ledger is part
// of the user record and is mutated only through the user entity.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Avatar       string
	Provider     AuthProvider
	ProviderID   string
	Tier         MembershipTier
	Role         UserRole
	IsActive     bool
	Ledger       AccessLedger
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
