// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"shutterpress/internal/models"
)

// AccessCounter aggregates the access log.
type AccessCounter interface {
	CountByAction(ctx context.Context, since time.Time) ([]models.AccessCount, error)
	CountOverTime(ctx context.Context, action string, since time.Time, unit string) ([]models.AccessBucket, error)
}

// DefaultAccessRange is used when no dateTimeRange is given.
const DefaultAccessRange = "1-day"

// accessRange is a lookback window and the bucket size used to chart it.
type accessRange struct {
	since func(now time.Time) time.Time
	unit  string
}

var accessRanges = map[string]accessRange{
	"1-day":   {func(now time.Time) time.Time { return now.AddDate(0, 0, -1) }, "hour"},
	"7-day":   {func(now time.Time) time.Time { return now.AddDate(0, 0, -7) }, "day"},
	"1-month": {func(now time.Time) time.Time { return now.AddDate(0, -1, 0) }, "day"},
	"3-month": {func(now time.Time) time.Time { return now.AddDate(0, -3, 0) }, "day"},
}

// Dashboard serves access statistics to administrators.
type Dashboard struct {
	counts AccessCounter
	now    func() time.Time
}

// NewDashboard creates a new Dashboard handler group.
func NewDashboard(counts AccessCounter) *Dashboard {
	return &Dashboard{counts: counts, now: time.Now}
}

type accessSeries struct {
	Action   string                `json:"action"`
	Range    string                `json:"range"`
	Unit     string                `json:"unit"`
	Datasets []models.AccessBucket `json:"datasets"`
}

// AccessCounts returns the number of events per action inside the
// requested dateTimeRange.
func (h *Dashboard) AccessCounts(w http.ResponseWriter, r *http.Request) {
	_, rng, err := parseAccessRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.counts.CountByAction(r.Context(), rng.since(h.now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// AccessCountsByAction charts one tracked action over the requested
// dateTimeRange, hourly for a day and daily otherwise.
func (h *Dashboard) AccessCountsByAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if !slices.Contains(models.TrackedActions, action) {
		writeError(w, r, fmt.Errorf("%w: unknown action %q", ErrNotFound, action))
		return
	}
	name, rng, err := parseAccessRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	buckets, err := h.counts.CountOverTime(r.Context(), action, rng.since(h.now()), rng.unit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accessSeries{Action: action, Range: name, Unit: rng.unit, Datasets: buckets})
}

func parseAccessRange(r *http.Request) (string, accessRange, error) {
	name := r.URL.Query().Get("dateTimeRange")
	if name == "" {
		name = DefaultAccessRange
	}
	rng, ok := accessRanges[name]
	if !ok {
		return "", accessRange{}, fmt.Errorf("%w: dateTimeRange must be one of 1-day, 7-day, 1-month, 3-month", ErrBadRequest)
	}
	return name, rng, nil
}
