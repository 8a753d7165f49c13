// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// ResourcePost is the resource type recorded on audit and access logs
// that reference a post.
const ResourcePost = "post"

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusDraft     PostStatus = "draft"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is one of the known publication states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusPublished, PostStatusDraft, PostStatusArchived:
		return true
	}
	return false
}

// Post is a photo post as returned by listing and single-item reads. The
// fields below UserID are derived by the query rather than stored on the
// posts row.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    PostStatus `json:"status"`
	UserID    int64      `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User          PostOwner     `json:"user"`
	TotalComments int           `json:"total_comments"`
	TotalLikes    int           `json:"total_likes"`
	Liked         bool          `json:"liked"`
	Tags          []Tag         `json:"tags"`
	File          *PostFile     `json:"file,omitempty"`
	Audit         *AuditSummary `json:"audit,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostOwner is the public projection of the user who owns a post.
type PostOwner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PostFile is the primary file shown with a post.
type PostFile struct {
	ID     int64 `json:"id"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// AuditSummary is the latest audit verdict attached to a listed post.
type AuditSummary struct {
	ID     int64       `json:"id"`
	Status AuditStatus `json:"status"`
}

// Tag is a label attached to posts.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
