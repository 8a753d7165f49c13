// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shutterpress/internal/models"
)

// FileStore handles file metadata rows. Object bytes live in S3.
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a new FileStore.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

const fileColumns = `id, original_name, mimetype, size, s3_key, width, height, metadata, post_id, user_id, created_at`

// Create inserts a file row and fills in its generated fields.
func (s *FileStore) Create(ctx context.Context, f *models.File) error {
	metadata := f.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO files (original_name, mimetype, size, s3_key, width, height, metadata, post_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, f.OriginalName, f.MimeType, f.Size, f.S3Key, f.Width, f.Height, string(metadata), f.PostID, f.UserID,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// ListByPost returns all files of a post, newest first.
func (s *FileStore) ListByPost(ctx context.Context, postID int64) ([]models.File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+`
		FROM files WHERE post_id = $1
		ORDER BY id DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var (
			f        models.File
			metadata []byte
		)
		if err := rows.Scan(
			&f.ID, &f.OriginalName, &f.MimeType, &f.Size, &f.S3Key,
			&f.Width, &f.Height, &metadata, &f.PostID, &f.UserID, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Metadata = metadata
		files = append(files, f)
	}
	return files, rows.Err()
}

// Cameras returns distinct camera make/model pairs recorded in file
// metadata whose "make model" text contains q, case-insensitively.
func (s *FileStore) Cameras(ctx context.Context, q string, limit int) ([]models.Camera, error) {
	pairs, err := s.metadataPairs(ctx, "Make", "Model", q, limit)
	if err != nil {
		return nil, fmt.Errorf("search cameras: %w", err)
	}
	cameras := make([]models.Camera, len(pairs))
	for i, p := range pairs {
		cameras[i] = models.Camera{Make: p[0], Model: p[1]}
	}
	return cameras, nil
}

// Lenses returns distinct EXIF LensMake/LensModel pairs matching q the
// same way Cameras does.
func (s *FileStore) Lenses(ctx context.Context, q string, limit int) ([]models.Lens, error) {
	pairs, err := s.metadataPairs(ctx, "LensMake", "LensModel", q, limit)
	if err != nil {
		return nil, fmt.Errorf("search lenses: %w", err)
	}
	lenses := make([]models.Lens, len(pairs))
	for i, p := range pairs {
		lenses[i] = models.Lens{Make: p[0], Model: p[1]}
	}
	return lenses, nil
}

// metadataPairs returns the distinct values of two metadata keys, for
// files carrying both, whose joined text contains q.
func (s *FileStore) metadataPairs(ctx context.Context, makeKey, modelKey, q string, limit int) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT metadata->>$1::text, metadata->>$2::text
		FROM files
		WHERE metadata ? $1::text AND metadata ? $2::text
			AND (metadata->>$1::text) || ' ' || (metadata->>$2::text) ILIKE '%' || $3::text || '%'
		ORDER BY 1, 2
		LIMIT $4
	`, makeKey, modelKey, escapeLike(strings.TrimSpace(q)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([][2]string, 0)
	for rows.Next() {
		var p [2]string
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
