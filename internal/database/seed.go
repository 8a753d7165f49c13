// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"shutterpress/internal/storage"
)

// SeedAdminName is the development administrator created by Seed.
const SeedAdminName = "admin"

// Seed creates the development administrator and one approved, published
// demo post with a file so the public listing is not empty. It does
// nothing when the administrator already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`, SeedAdminName,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check seed admin: %w", err)
	}
	if exists {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var adminID, postID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO users (name, password_hash, role) VALUES ($1, $2, 'admin') RETURNING id`,
		SeedAdminName, string(hash),
	).Scan(&adminID); err != nil {
		return fmt.Errorf("insert seed admin: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, status, user_id)
		 VALUES ($1, $2, 'published', $3) RETURNING id`,
		"First light", "Shot at dawn on the *river* bank.", adminID,
	).Scan(&postID); err != nil {
		return fmt.Errorf("insert seed post: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO files (original_name, mimetype, size, s3_key, width, height, metadata, post_id, user_id)
		 VALUES ('first-light.jpg', 'image/jpeg', 0, $1, 6000, 4000, $2, $3, $4)`,
		storage.NewKey(adminID, "first-light.jpg"),
		`{"Make":"FUJIFILM","Model":"X100V"}`, postID, adminID,
	); err != nil {
		return fmt.Errorf("insert seed file: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO audit_logs (user_id, user_name, resource_type, resource_id, status, note)
		 VALUES ($1, $2, 'post', $3, 'approved', 'seed')`,
		adminID, SeedAdminName, postID,
	); err != nil {
		return fmt.Errorf("insert seed verdict: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	slog.Info("database seeded",
		"admin", SeedAdminName,
		"password", "admin",
		"post_id", postID,
	)
	return nil
}
