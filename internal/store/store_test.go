// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"shutterpress/internal/config"
	"shutterpress/internal/database"
	"shutterpress/internal/models"
	"shutterpress/internal/storage"
)

// testDSN points at the database the app itself would use, so the
// usual POSTGRES_* variables select the test server.
func testDSN(t *testing.T) string {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg.DSN()
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), testDSN(t))
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniqueName returns a name that cannot collide with other test runs.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// testUser creates a throwaway user. Their posts, files and likes are
// removed with them on cleanup.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), uniqueName("store-test"), "pass", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testPost creates a post for owner. When withFile is set, a file row with
// the given camera metadata is attached.
func testPost(t *testing.T, db *sql.DB, owner *models.User, status models.PostStatus, withFile bool, metadata string) *models.Post {
	t.Helper()
	ctx := context.Background()
	p := &models.Post{Title: uniqueName("post"), Content: "body", Status: status, UserID: owner.ID}
	if err := NewPostStore(db).Create(ctx, p); err != nil {
		t.Fatalf("create test post: %v", err)
	}
	if withFile {
		f := &models.File{
			OriginalName: "photo.jpg",
			MimeType:     "image/jpeg",
			S3Key:        storage.NewKey(owner.ID, "photo.jpg"),
			Width:        800,
			Height:       600,
			Metadata:     []byte(metadata),
			PostID:       p.ID,
			UserID:       owner.ID,
		}
		if err := NewFileStore(db).Create(ctx, f); err != nil {
			t.Fatalf("create test file: %v", err)
		}
	}
	return p
}

// cleanTags removes test tags by name. Call in t.Cleanup().
func cleanTags(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM tags WHERE name = $1", name)
	}
}

// cleanAudits removes audit logs of a resource. Call in t.Cleanup().
func cleanAudits(t *testing.T, db *sql.DB, resourceID int64) {
	t.Helper()
	db.Exec("DELETE FROM audit_logs WHERE resource_type = $1 AND resource_id = $2", models.ResourcePost, resourceID)
}
