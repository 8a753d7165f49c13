// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API. Each handler group holds
// the stores it needs; errors are mapped to status codes in one place.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"shutterpress/internal/listing"
	"shutterpress/internal/policy"
	"shutterpress/internal/store"
)

var (
	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when a request needs a signed-in user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest marks malformed input. Wrap it with details.
	ErrBadRequest = errors.New("bad request")
)

// statusOf maps an error to the HTTP status it is reported with.
func statusOf(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, policy.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, listing.ErrInvalidStatus),
		errors.Is(err, listing.ErrInvalidAuditStatus),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrTagAlreadyAttached),
		errors.Is(err, store.ErrNameTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError reports err as {"message": ...}. Server errors are logged
// and their details withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	var verrs validator.ValidationErrors
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		msg = http.StatusText(status)
	} else if errors.As(err, &verrs) {
		msg = validationMessage(verrs)
	}
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}
