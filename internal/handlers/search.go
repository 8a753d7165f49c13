// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"shutterpress/internal/models"
)

// searchLimit caps search suggestions.
const searchLimit = 20

// TagSearcher finds tags by name prefix.
type TagSearcher interface {
	Search(ctx context.Context, prefix string, limit int) ([]models.Tag, error)
}

// FileSearcher finds cameras and lenses recorded in file metadata.
type FileSearcher interface {
	Cameras(ctx context.Context, q string, limit int) ([]models.Camera, error)
	Lenses(ctx context.Context, q string, limit int) ([]models.Lens, error)
}

// UserSearcher finds users by name prefix.
type UserSearcher interface {
	Search(ctx context.Context, prefix string, limit int) ([]models.UserSummary, error)
}

// Search groups the suggestion endpoints used by listing filters.
type Search struct {
	tags  TagSearcher
	files FileSearcher
	users UserSearcher
}

// NewSearch creates a new Search handler group.
func NewSearch(tags TagSearcher, files FileSearcher, users UserSearcher) *Search {
	return &Search{tags: tags, files: files, users: users}
}

// Tags suggests tags starting with the name query parameter.
func (h *Search) Tags(w http.ResponseWriter, r *http.Request) {
	name, err := requiredQuery(r, "name")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tags, err := h.tags.Search(r.Context(), name, searchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Cameras suggests camera make/model pairs matching makeModel.
func (h *Search) Cameras(w http.ResponseWriter, r *http.Request) {
	q, err := requiredQuery(r, "makeModel")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cameras, err := h.files.Cameras(r.Context(), q, searchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cameras)
}

// Lenses suggests lens make/model pairs matching makeModel.
func (h *Search) Lenses(w http.ResponseWriter, r *http.Request) {
	q, err := requiredQuery(r, "makeModel")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lenses, err := h.files.Lenses(r.Context(), q, searchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lenses)
}

// Users suggests users whose name starts with the name query parameter.
func (h *Search) Users(w http.ResponseWriter, r *http.Request) {
	name, err := requiredQuery(r, "name")
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.users.Search(r.Context(), name, searchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrBadRequest, name)
	}
	return v, nil
}
