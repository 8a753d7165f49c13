package listing

import (
	"net/url"

	"shutterpress/internal/models"
)

// Mode carries the manage/admin switches of a listing request.
type Mode struct {
	Manage bool
	Admin  bool
}

// ModeFromQuery reads the "manage" and "admin" switches. Only the literal
// value "true" turns a switch on.
func ModeFromQuery(q url.Values) Mode {
	return Mode{
		Manage: q.Get("manage") == "true",
		Admin:  q.Get("admin") == "true",
	}
}

// Elevated reports whether the request gets the unrestricted admin view.
// The admin switch alone is not enough; the principal must be an admin.
func (m Mode) Elevated(p models.Principal) bool {
	return m.Manage && m.Admin && p.Admin
}

// Apply returns the effective filter and publication state. Outside
// manage mode the state is forced to published. In manage mode the
// selected filter is replaced, never combined: admins see everything and
// everyone else sees only their own posts, in any requested state.
func (m Mode) Apply(f Filter, status models.PostStatus, p models.Principal) (Filter, models.PostStatus) {
	if !m.Manage {
		return f, models.PostStatusPublished
	}
	if m.Elevated(p) {
		return AllPostsFilter{}, status
	}
	return OwnerFilter{UserID: p.ID}, status
}
