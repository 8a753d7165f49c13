// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"shutterpress/internal/listing"
	"shutterpress/internal/markdown"
	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
	"shutterpress/internal/policy"
	"shutterpress/internal/store"
)

// PostStore is the post persistence the handlers need.
type PostStore interface {
	List(ctx context.Context, opts listing.Options) ([]models.Post, int, error)
	FindByID(ctx context.Context, id int64, viewer models.Principal) (*models.Post, error)
	OwnerID(ctx context.Context, id int64) (int64, bool, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, id int64, c store.PostChanges) (bool, error)
	Delete(ctx context.Context, id int64) error
	AttachTag(ctx context.Context, postID, tagID int64) error
	DetachTag(ctx context.Context, postID, tagID int64) (bool, error)
}

// LatestAudit looks up the most recent verdict for a resource.
type LatestAudit interface {
	LatestByResource(ctx context.Context, resourceType string, resourceID int64) (*models.AuditLog, error)
}

// FileLister lists the files of a post.
type FileLister interface {
	ListByPost(ctx context.Context, postID int64) ([]models.File, error)
}

// TagEnsurer finds or creates a tag by name.
type TagEnsurer interface {
	Ensure(ctx context.Context, name string) (*models.Tag, error)
}

// ObjectDeleter removes stored file objects by key.
type ObjectDeleter interface {
	DeleteObjects(ctx context.Context, keys []string) error
}

// Posts groups the post handlers.
type Posts struct {
	posts   PostStore
	audits  LatestAudit
	files   FileLister
	tags    TagEnsurer
	objects ObjectDeleter
}

// NewPosts creates a new Posts handler group. objects may be nil when
// object storage is not configured.
func NewPosts(posts PostStore, audits LatestAudit, files FileLister, tags TagEnsurer, objects ObjectDeleter) *Posts {
	return &Posts{
		posts:   posts,
		audits:  audits,
		files:   files,
		tags:    tags,
		objects: objects,
	}
}

// postDetail is a single post with its content rendered to HTML.
type postDetail struct {
	*models.Post
	ContentHTML string `json:"content_html"`
}

type createPostRequest struct {
	Title   string            `json:"title" validate:"required,max=300"`
	Content string            `json:"content" validate:"max=100000"`
	Status  models.PostStatus `json:"status" validate:"omitempty,oneof=published draft archived"`
}

type updatePostRequest struct {
	Title   *string            `json:"title" validate:"omitnil,min=1,max=300"`
	Content *string            `json:"content" validate:"omitnil,max=100000"`
	Status  *models.PostStatus `json:"status" validate:"omitnil,oneof=published draft archived"`
}

type attachTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Index lists posts with the options ListingOptions attached to the
// request. The unpaginated total is sent in X-Total-Count.
func (h *Posts) Index(w http.ResponseWriter, r *http.Request) {
	opts, ok := listing.FromContext(r.Context())
	if !ok {
		writeError(w, r, errors.New("listing options not attached to request"))
		return
	}

	posts, total, err := h.posts.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, posts)
}

// Show returns one post if the principal may view it.
func (h *Posts) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "postId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	viewer := middleware.PrincipalFromCtx(ctx)

	post, err := h.posts.FindByID(ctx, id, viewer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, r, ErrNotFound)
		return
	}

	latest, err := h.audits.LatestByResource(ctx, models.ResourcePost, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.AuthorizeView(post, latest, viewer); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.detail(post))
}

// Create adds a post owned by the signed-in user.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middleware.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		writeError(w, r, ErrUnauthorized)
		return
	}

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		UserID:  p.ID,
	}
	if err := h.posts.Create(ctx, post); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("post created", "post_id", post.ID, "user_id", p.ID)

	h.respondWithPost(w, r, post.ID, http.StatusCreated)
}

// Update changes title, content or status of a post. Owner or admin only.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.authorizeChange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	found, err := h.posts.Update(ctx, id, store.PostChanges{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, ErrNotFound)
		return
	}

	h.respondWithPost(w, r, id, http.StatusOK)
}

// Delete removes a post and its stored file objects. Owner or admin only.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.authorizeChange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	files, err := h.files.ListByPost(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.objects != nil && len(files) > 0 {
		keys := make([]string, len(files))
		for i, f := range files {
			keys[i] = f.S3Key
		}
		if err := h.objects.DeleteObjects(ctx, keys); err != nil {
			writeError(w, r, fmt.Errorf("delete files of post %d: %w", id, err))
			return
		}
	} else if len(files) > 0 {
		slog.Warn("object storage not configured, leaving file objects behind", "post_id", id, "files", len(files))
	}

	if err := h.posts.Delete(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("post deleted", "post_id", id, "files", len(files))

	w.WriteHeader(http.StatusNoContent)
}

// AttachTag adds a tag by name, creating the tag if needed.
func (h *Posts) AttachTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.authorizeChange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req attachTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.tags.Ensure(ctx, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.posts.AttachTag(ctx, id, tag.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// DetachTag removes the tag given by the tagId query parameter.
func (h *Posts) DetachTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.authorizeChange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tagID, err := queryID(r, "tagId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	found, err := h.posts.DetachTag(ctx, id, tagID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorizeChange resolves the postId URL parameter and checks that the
// principal may modify that post.
func (h *Posts) authorizeChange(r *http.Request) (int64, error) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p.IsAnonymous() {
		return 0, ErrUnauthorized
	}
	id, err := pathID(r, "postId")
	if err != nil {
		return 0, err
	}
	ownerID, found, err := h.posts.OwnerID(r.Context(), id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	if err := policy.AuthorizeChange(ownerID, p); err != nil {
		return 0, err
	}
	return id, nil
}

// respondWithPost re-reads a post after a write so the response carries
// its derived fields.
func (h *Posts) respondWithPost(w http.ResponseWriter, r *http.Request, id int64, status int) {
	post, err := h.posts.FindByID(r.Context(), id, middleware.PrincipalFromCtx(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, r, ErrNotFound)
		return
	}
	writeJSON(w, status, h.detail(post))
}

func (h *Posts) detail(post *models.Post) postDetail {
	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("render post content failed", "post_id", post.ID, "error", err)
	}
	return postDetail{Post: post, ContentHTML: html}
}
