package policy

import (
	"errors"
	"testing"

	"shutterpress/internal/models"
)

func TestCanView(t *testing.T) {
	const ownerID = 10

	approved := &models.AuditLog{ID: 2, Status: models.AuditStatusApproved}
	denied := &models.AuditLog{ID: 3, Status: models.AuditStatusDenied}
	pending := &models.AuditLog{ID: 4, Status: models.AuditStatusPending}

	owner := models.Principal{ID: ownerID}
	stranger := models.Principal{ID: 11}
	admin := models.Principal{ID: 12, Admin: true}
	anonymous := models.Anonymous()

	tests := []struct {
		name      string
		status    models.PostStatus
		audit     *models.AuditLog
		principal models.Principal
		want      bool
	}{
		{name: "owner views own draft", status: models.PostStatusDraft, principal: owner, want: true},
		{name: "owner views own denied post", status: models.PostStatusPublished, audit: denied, principal: owner, want: true},
		{name: "admin views someone else's draft", status: models.PostStatusDraft, principal: admin, want: true},
		{name: "admin views archived denied post", status: models.PostStatusArchived, audit: denied, principal: admin, want: true},
		{name: "stranger, published, never audited", status: models.PostStatusPublished, principal: stranger, want: false},
		{name: "stranger, published, approved", status: models.PostStatusPublished, audit: approved, principal: stranger, want: true},
		{name: "stranger, published, latest denied", status: models.PostStatusPublished, audit: denied, principal: stranger, want: false},
		{name: "stranger, published, latest pending", status: models.PostStatusPublished, audit: pending, principal: stranger, want: false},
		{name: "stranger, draft, approved", status: models.PostStatusDraft, audit: approved, principal: stranger, want: false},
		{name: "stranger, archived, approved", status: models.PostStatusArchived, audit: approved, principal: stranger, want: false},
		{name: "anonymous, published, approved", status: models.PostStatusPublished, audit: approved, principal: anonymous, want: true},
		{name: "anonymous, draft", status: models.PostStatusDraft, principal: anonymous, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{ID: 1, Status: tt.status, UserID: ownerID}
			if got := CanView(post, tt.audit, tt.principal); got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}

			err := AuthorizeView(post, tt.audit, tt.principal)
			if tt.want && err != nil {
				t.Errorf("AuthorizeView = %v, want nil", err)
			}
			if !tt.want && !errors.Is(err, ErrForbidden) {
				t.Errorf("AuthorizeView = %v, want ErrForbidden", err)
			}
		})
	}
}

// TestCanViewAnonymousDoesNotOwnOrphans guards against the zero principal
// matching a zero owner id.
func TestCanViewAnonymousDoesNotOwnOrphans(t *testing.T) {
	post := &models.Post{Status: models.PostStatusDraft}
	if CanView(post, nil, models.Anonymous()) {
		t.Error("anonymous principal can view a draft with zero owner id")
	}
}

func TestAuthorizeChange(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		wantErr   bool
	}{
		{name: "owner", principal: models.Principal{ID: 5}, wantErr: false},
		{name: "admin", principal: models.Principal{ID: 1, Admin: true}, wantErr: false},
		{name: "stranger", principal: models.Principal{ID: 6}, wantErr: true},
		{name: "anonymous", principal: models.Anonymous(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeChange(5, tt.principal)
			if tt.wantErr && !errors.Is(err, ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
		})
	}
}
