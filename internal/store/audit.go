// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shutterpress/internal/models"
)

// AuditStore persists moderation verdicts. Rows are never updated; a newer
// verdict supersedes older ones.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

const auditColumns = `id, user_id, user_name, resource_type, resource_id, status, note, created_at`

func scanAudit(row rowScanner, a *models.AuditLog) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.UserName, &a.ResourceType, &a.ResourceID,
		&a.Status, &a.Note, &a.CreatedAt,
	)
}

// Create records a verdict and fills in its generated fields.
func (s *AuditStore) Create(ctx context.Context, a *models.AuditLog) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO audit_logs (user_id, user_name, resource_type, resource_id, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.UserID, a.UserName, a.ResourceType, a.ResourceID, string(a.Status), a.Note).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// LatestByResource returns the most recent verdict for a resource, or nil
// if it was never audited.
func (s *AuditStore) LatestByResource(ctx context.Context, resourceType string, resourceID int64) (*models.AuditLog, error) {
	a := &models.AuditLog{}
	err := scanAudit(s.db.QueryRowContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, resourceType, resourceID), a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest audit log: %w", err)
	}
	return a, nil
}

// ListByResource returns every verdict for a resource, newest first.
func (s *AuditStore) ListByResource(ctx context.Context, resourceType string, resourceID int64) ([]models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC, id DESC
	`, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.AuditLog, 0)
	for rows.Next() {
		var a models.AuditLog
		if err := scanAudit(rows, &a); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

// Delete removes a verdict. Returns false if it did not exist.
func (s *AuditStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete audit log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete audit log: %w", err)
	}
	return n > 0, nil
}
