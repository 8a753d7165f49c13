package models

import "time"

// AuditStatus is a moderation verdict.
type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusApproved AuditStatus = "approved"
	AuditStatusDenied   AuditStatus = "denied"
)

// Valid reports whether s is one of the known verdicts.
func (s AuditStatus) Valid() bool {
	switch s {
	case AuditStatusPending, AuditStatusApproved, AuditStatusDenied:
		return true
	}
	return false
}

// AuditLog records one moderation verdict for a resource. Records are
// never updated; a newer record supersedes older ones.
type AuditLog struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	UserName     string      `json:"user_name"`
	ResourceType string      `json:"resource_type"`
	ResourceID   int64       `json:"resource_id"`
	Status       AuditStatus `json:"status"`
	Note         string      `json:"note"`
	CreatedAt    time.Time   `json:"created_at"`
}

// IsApproved returns true if the verdict is approved.
func (a *AuditLog) IsApproved() bool {
	return a.Status == AuditStatusApproved
}
