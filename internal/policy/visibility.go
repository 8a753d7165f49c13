// Package policy decides what a principal may see or change.
package policy

import (
	"errors"

	"shutterpress/internal/models"
)

// ErrForbidden is returned when the principal may not access a resource.
var ErrForbidden = errors.New("forbidden")

// CanView reports whether p may view post. latest is the most recent
// audit record for the post, or nil if it has never been audited. Only
// the most recent verdict counts: an older approval does not survive a
// newer denial.
func CanView(post *models.Post, latest *models.AuditLog, p models.Principal) bool {
	if p.Admin || p.Owns(post.UserID) {
		return true
	}
	return post.IsPublished() && latest != nil && latest.IsApproved()
}

// AuthorizeView returns ErrForbidden when CanView denies access.
func AuthorizeView(post *models.Post, latest *models.AuditLog, p models.Principal) error {
	if !CanView(post, latest, p) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeChange returns ErrForbidden unless p may edit or delete a post
// owned by ownerID.
func AuthorizeChange(ownerID int64, p models.Principal) error {
	if p.Admin || p.Owns(ownerID) {
		return nil
	}
	return ErrForbidden
}
