// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"net/http"

	"shutterpress/internal/listing"
)

// ListingOptions derives the listing options of a collection request once
// and attaches them to the request context, where handlers read them
// with listing.FromContext. Invalid state filters are rejected with 400.
// Must be applied after LoadSession.
func ListingOptions(pageSize int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			opts, err := listing.Parse(r.URL.Query(), PrincipalFromCtx(r.Context()), pageSize)
			if err != nil {
				msg := "invalid listing options"
				if errors.Is(err, listing.ErrInvalidStatus) || errors.Is(err, listing.ErrInvalidAuditStatus) {
					msg = err.Error()
				}
				writeError(w, http.StatusBadRequest, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(listing.NewContext(r.Context(), opts)))
		})
	}
}
