package models

import "testing"

func TestPostStatusValid(t *testing.T) {
	tests := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusPublished, true},
		{PostStatusDraft, true},
		{PostStatusArchived, true},
		{PostStatus(""), false},
		{PostStatus("deleted"), false},
		{PostStatus("PUBLISHED"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("PostStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// TestPostIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "published", status: PostStatusPublished, want: true},
		{name: "draft", status: PostStatusDraft, want: false},
		{name: "archived", status: PostStatusArchived, want: false},
		{name: "empty status", status: PostStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status}
			if got := p.IsPublished(); got != tt.want {
				t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestAuditStatus(t *testing.T) {
	for _, s := range []AuditStatus{AuditStatusPending, AuditStatusApproved, AuditStatusDenied} {
		if !s.Valid() {
			t.Errorf("AuditStatus(%q).Valid() = false", s)
		}
	}
	if AuditStatus("rejected").Valid() {
		t.Error(`AuditStatus("rejected").Valid() = true`)
	}

	approved := &AuditLog{Status: AuditStatusApproved}
	if !approved.IsApproved() {
		t.Error("approved log reports not approved")
	}
	pending := &AuditLog{Status: AuditStatusPending}
	if pending.IsApproved() {
		t.Error("pending log reports approved")
	}
}
