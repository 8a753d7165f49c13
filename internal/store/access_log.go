// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// access_log.go records request access events for auditing who read or
// changed what. Writes are best-effort and never fail the request.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"shutterpress/internal/models"
)

// AccessLogStore handles access log operations.
type AccessLogStore struct {
	db *sql.DB
}

// NewAccessLogStore creates a new AccessLogStore.
func NewAccessLogStore(db *sql.DB) *AccessLogStore {
	return &AccessLogStore{db: db}
}

// Log records an access event. Failures are logged and swallowed.
func (s *AccessLogStore) Log(ctx context.Context, l *models.AccessLog) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO access_logs
			(user_id, user_name, action, resource_type, resource_id, payload, ip, origin, user_agent, referer, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, l.UserID, l.UserName, l.Action, l.ResourceType, l.ResourceID, l.Payload,
		l.IP, l.Origin, l.UserAgent, l.Referer, l.RequestID,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		slog.Warn("failed to record access log",
			"action", l.Action,
			"resource_type", l.ResourceType,
			"error", err,
		)
		return
	}
	slog.Debug("access logged", "action", l.Action, "id", l.ID)
}

// Recent returns the most recent access events for an action, newest first.
func (s *AccessLogStore) Recent(ctx context.Context, action string, limit int) ([]models.AccessLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, action, resource_type, resource_id, payload,
			ip, origin, user_agent, referer, request_id, created_at
		FROM access_logs
		WHERE action = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, action, limit)
	if err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AccessLog
	for rows.Next() {
		var l models.AccessLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.UserName, &l.Action, &l.ResourceType, &l.ResourceID, &l.Payload,
			&l.IP, &l.Origin, &l.UserAgent, &l.Referer, &l.RequestID, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountByAction returns how many events of each action were recorded
// since the given time, in action order.
func (s *AccessLogStore) CountByAction(ctx context.Context, since time.Time) ([]models.AccessCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*)
		FROM access_logs
		WHERE created_at >= $1
		GROUP BY action
		ORDER BY action
	`, since)
	if err != nil {
		return nil, fmt.Errorf("count access logs: %w", err)
	}
	defer rows.Close()

	counts := make([]models.AccessCount, 0)
	for rows.Next() {
		var c models.AccessCount
		if err := rows.Scan(&c.Action, &c.Value); err != nil {
			return nil, fmt.Errorf("scan access count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountOverTime returns the events of action recorded since the given
// time, grouped into buckets of unit ("hour" or "day"), oldest first.
// Empty buckets are omitted.
func (s *AccessLogStore) CountOverTime(ctx context.Context, action string, since time.Time, unit string) ([]models.AccessBucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE_TRUNC($3::text, created_at) AS bucket, COUNT(*)
		FROM access_logs
		WHERE action = $1 AND created_at >= $2
		GROUP BY bucket
		ORDER BY bucket
	`, action, since, unit)
	if err != nil {
		return nil, fmt.Errorf("count access logs of %s: %w", action, err)
	}
	defer rows.Close()

	buckets := make([]models.AccessBucket, 0)
	for rows.Next() {
		var b models.AccessBucket
		if err := rows.Scan(&b.Time, &b.Value); err != nil {
			return nil, fmt.Errorf("scan access bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
