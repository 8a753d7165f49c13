// Package models defines the rows the store reads and writes and the
// identity types shared by middleware, handlers and policy.
package models

import "time"

// Role is a user's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// IsAdmin reports whether the role grants administrative privilege. Only
// the exact "admin" value does.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ResourceUser is the resource type recorded on access logs for user
// profile reads.
const ResourceUser = "user"

// User is an account that owns posts. The password hash never leaves the
// store.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is a user as shown in search suggestions.
type UserSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TotalPosts int    `json:"total_posts"`
}

// Principal is the identity a request acts as. The zero value is the
// anonymous visitor: it owns nothing and holds no privilege.
type Principal struct {
	ID    int64
	Name  string
	Admin bool
}

// NewPrincipal returns the principal for a signed-in user. Privilege is
// derived from role alone.
func NewPrincipal(userID int64, name string, role Role) Principal {
	return Principal{ID: userID, Name: name, Admin: role.IsAdmin()}
}

// Anonymous returns the principal used when no session is present.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether the principal is not backed by a user.
func (p Principal) IsAnonymous() bool {
	return p.ID == 0
}

// Owns reports whether the principal is the given owner. The anonymous
// principal owns nothing.
func (p Principal) Owns(ownerID int64) bool {
	return !p.IsAnonymous() && p.ID == ownerID
}
