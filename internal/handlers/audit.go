// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
	"shutterpress/internal/policy"
)

// AuditStore is the moderation log persistence the handlers need.
type AuditStore interface {
	Create(ctx context.Context, a *models.AuditLog) error
	ListByResource(ctx context.Context, resourceType string, resourceID int64) ([]models.AuditLog, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PostOwners resolves the owner of a post.
type PostOwners interface {
	OwnerID(ctx context.Context, id int64) (int64, bool, error)
}

// AuditLogs groups the moderation log handlers.
type AuditLogs struct {
	audits AuditStore
	posts  PostOwners
}

// NewAuditLogs creates a new AuditLogs handler group.
func NewAuditLogs(audits AuditStore, posts PostOwners) *AuditLogs {
	return &AuditLogs{audits: audits, posts: posts}
}

type createAuditRequest struct {
	ResourceType string             `json:"resource_type" validate:"required,oneof=post"`
	ResourceID   int64              `json:"resource_id" validate:"required,gt=0"`
	Status       models.AuditStatus `json:"status" validate:"required,oneof=pending approved denied"`
	Note         string             `json:"note" validate:"max=1000"`
}

// Create records a verdict on a post. Admin only; a newer verdict
// supersedes older ones.
func (h *AuditLogs) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middleware.PrincipalFromCtx(ctx)
	if !p.Admin {
		writeError(w, r, policy.ErrForbidden)
		return
	}

	var req createAuditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if _, found, err := h.posts.OwnerID(ctx, req.ResourceID); err != nil {
		writeError(w, r, err)
		return
	} else if !found {
		writeError(w, r, ErrNotFound)
		return
	}

	entry := &models.AuditLog{
		UserID:       p.ID,
		UserName:     p.Name,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Status:       req.Status,
		Note:         req.Note,
	}
	if err := h.audits.Create(ctx, entry); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("audit recorded",
		"resource_type", entry.ResourceType,
		"resource_id", entry.ResourceID,
		"status", entry.Status,
		"by", p.ID,
	)

	writeJSON(w, http.StatusCreated, entry)
}

// Index lists the verdicts of one post, newest first. Visible to admins
// and the post owner.
func (h *AuditLogs) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middleware.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		writeError(w, r, ErrUnauthorized)
		return
	}

	resourceType := r.URL.Query().Get("resourceType")
	if resourceType == "" {
		resourceType = models.ResourcePost
	}
	if resourceType != models.ResourcePost {
		writeError(w, r, fmt.Errorf("%w: unsupported resourceType %q", ErrBadRequest, resourceType))
		return
	}
	resourceID, err := queryID(r, "resourceId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ownerID, found, err := h.posts.OwnerID(ctx, resourceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, ErrNotFound)
		return
	}
	if err := policy.AuthorizeChange(ownerID, p); err != nil {
		writeError(w, r, err)
		return
	}

	logs, err := h.audits.ListByResource(ctx, resourceType, resourceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Delete removes a verdict. Admin only.
func (h *AuditLogs) Delete(w http.ResponseWriter, r *http.Request) {
	if !middleware.PrincipalFromCtx(r.Context()).Admin {
		writeError(w, r, policy.ErrForbidden)
		return
	}
	id, err := pathID(r, "auditLogId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	found, err := h.audits.Delete(r.Context(), id)
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
