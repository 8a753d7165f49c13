// Package listing turns the query string of a post listing request into
// an immutable set of options and composes the parameterized SQL that
// serves it.
package listing

import (
	"net/url"
	"strconv"
)

// Filter is one of the mutually exclusive listing predicates. The set of
// implementations is closed: only this package can add variants.
type Filter interface {
	// Name identifies the variant in logs and responses.
	Name() string
	isFilter()
}

// NoFilter places no restriction on the listing.
type NoFilter struct{}

// TagFilter keeps posts carrying the named tag.
type TagFilter struct {
	Tag string
}

// UserPublishedFilter keeps posts owned by a user.
type UserPublishedFilter struct {
	UserID int64
}

// UserLikedFilter keeps posts a user has liked.
type UserLikedFilter struct {
	UserID int64
}

// CameraFilter keeps posts whose primary photo was taken with a camera.
type CameraFilter struct {
	Make  string
	Model string
}

// LensFilter keeps posts whose primary photo was taken with a lens.
type LensFilter struct {
	Make  string
	Model string
}

// AllPostsFilter is the manage-mode filter of an administrator.
type AllPostsFilter struct{}

// OwnerFilter is the manage-mode filter of a non-administrator.
type OwnerFilter struct {
	UserID int64
}

func (NoFilter) Name() string            { return "default" }
func (TagFilter) Name() string           { return "tagName" }
func (UserPublishedFilter) Name() string { return "userPublished" }
func (UserLikedFilter) Name() string     { return "userLiked" }
func (CameraFilter) Name() string        { return "camera" }
func (LensFilter) Name() string          { return "lens" }
func (AllPostsFilter) Name() string      { return "adminManagePosts" }
func (OwnerFilter) Name() string         { return "ownPosts" }

func (NoFilter) isFilter()            {}
func (TagFilter) isFilter()           {}
func (UserPublishedFilter) isFilter() {}
func (UserLikedFilter) isFilter()     {}
func (CameraFilter) isFilter()        {}
func (LensFilter) isFilter()          {}
func (AllPostsFilter) isFilter()      {}
func (OwnerFilter) isFilter()         {}

// Listing actions accepted in the "action" parameter.
const (
	ActionPublished = "published"
	ActionLiked     = "liked"
)

// SelectFilter picks the filter for a query string. Variants are tried in
// priority order and the first whose trigger fully matches wins, so camera
// parameters take precedence over lens parameters when both are sent.
// Any non-empty "user" rules out the tag filter, but only a positive
// integer selects one of the user filters.
func SelectFilter(q url.Values) Filter {
	tag := q.Get("tag")
	action := q.Get("action")
	rawUser := q.Get("user")
	userID, hasUser := parseID(rawUser)
	hasTag := tag != ""

	switch {
	case hasTag && rawUser == "" && action == "":
		return TagFilter{Tag: tag}
	case hasUser && action == ActionPublished && !hasTag:
		return UserPublishedFilter{UserID: userID}
	case hasUser && action == ActionLiked && !hasTag:
		return UserLikedFilter{UserID: userID}
	}

	if mk, model := q.Get("cameraMake"), q.Get("cameraModel"); mk != "" && model != "" {
		return CameraFilter{Make: mk, Model: model}
	}
	if mk, model := q.Get("lensMake"), q.Get("lensModel"); mk != "" && model != "" {
		return LensFilter{Make: mk, Model: model}
	}

	return NoFilter{}
}

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
