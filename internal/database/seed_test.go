package database

import (
	"context"
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db := migrated(t)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var admins int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE name = $1 AND role = 'admin'`, SeedAdminName).Scan(&admins); err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if admins != 1 {
		t.Errorf("seed admins = %d, want 1", admins)
	}
}

func TestSeedPostIsPubliclyVisible(t *testing.T) {
	db := migrated(t)
	ctx := context.Background()
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var visible bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM posts p
			JOIN users u ON u.id = p.user_id
			JOIN files f ON f.post_id = p.id
			WHERE u.name = $1 AND p.status = 'published'
			  AND (SELECT a.status FROM audit_logs a
			       WHERE a.resource_type = 'post' AND a.resource_id = p.id
			       ORDER BY a.created_at DESC, a.id DESC LIMIT 1) = 'approved'
		)`, SeedAdminName).Scan(&visible)
	if err != nil {
		t.Fatalf("query seed post: %v", err)
	}
	if !visible {
		t.Error("seed post is not published, approved and backed by a file")
	}
}
