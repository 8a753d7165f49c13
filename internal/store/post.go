// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"shutterpress/internal/listing"
	"shutterpress/internal/models"
)

// ErrTagAlreadyAttached is returned when a post already carries the tag.
var ErrTagAlreadyAttached = errors.New("tag already attached to post")

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns one page of posts matching opts together with the number of
// posts matching without pagination. The page and the count run
// concurrently; the first failure cancels the other.
func (s *PostStore) List(ctx context.Context, opts listing.Options) ([]models.Post, int, error) {
	page, count := listing.Build(opts)

	var (
		posts []models.Post
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.db.QueryContext(gctx, page.SQL, page.Args...)
		if err != nil {
			return fmt.Errorf("list posts (%s): %w", opts.Filter.Name(), err)
		}
		defer rows.Close()

		posts = make([]models.Post, 0)
		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				return err
			}
			posts = append(posts, *p)
		}
		return rows.Err()
	})
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, count.SQL, count.Args...).Scan(&total); err != nil {
			return fmt.Errorf("count posts (%s): %w", opts.Filter.Name(), err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindByID retrieves a post as seen by viewer. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id int64, viewer models.Principal) (*models.Post, error) {
	st := listing.SinglePost(id, viewer)
	p, err := scanPost(s.db.QueryRowContext(ctx, st.SQL, st.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// OwnerID returns the id of the user owning the post. found is false when
// the post does not exist.
func (s *PostStore) OwnerID(ctx context.Context, id int64) (ownerID int64, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find post owner: %w", err)
	}
	return ownerID, true, nil
}

// Create inserts a new post and fills in its generated fields.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, string(p.Status), p.UserID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// PostChanges lists the fields of a post to update. Nil fields are kept.
type PostChanges struct {
	Title   *string
	Content *string
	Status  *models.PostStatus
}

// Update applies changes to the post. Returns false if it does not exist.
func (s *PostStore) Update(ctx context.Context, id int64, c PostChanges) (bool, error) {
	var status *string
	if c.Status != nil {
		v := string(*c.Status)
		status = &v
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = COALESCE($1, title),
			content = COALESCE($2, content),
			status = COALESCE($3, status),
			updated_at = NOW()
		WHERE id = $4
	`, c.Title, c.Content, status, id)
	if err != nil {
		return false, fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update post: %w", err)
	}
	return n > 0, nil
}

// Delete removes a post. Files, tags, comments and likes cascade.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AttachTag links a tag to a post. Returns ErrTagAlreadyAttached if the
// link exists.
func (s *PostStore) AttachTag(ctx context.Context, postID, tagID int64) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	if n == 0 {
		return ErrTagAlreadyAttached
	}
	return nil
}

// DetachTag unlinks a tag from a post. Returns false if it was not linked.
func (s *PostStore) DetachTag(ctx context.Context, postID, tagID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, tagID)
	if err != nil {
		return false, fmt.Errorf("detach tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("detach tag: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost decodes one row selected with listing.PostColumns followed by
// the liked flag.
func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p           models.Post
		fileID      sql.NullInt64
		fileWidth   sql.NullInt64
		fileHeight  sql.NullInt64
		tags        []byte
		auditID     sql.NullInt64
		auditStatus sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Status, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt,
		&p.User.Name, &p.TotalComments, &p.TotalLikes,
		&fileID, &fileWidth, &fileHeight,
		&tags,
		&auditID, &auditStatus,
		&p.Liked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	p.User.ID = p.UserID
	if fileID.Valid {
		p.File = &models.PostFile{
			ID:     fileID.Int64,
			Width:  int(fileWidth.Int64),
			Height: int(fileHeight.Int64),
		}
	}
	if auditID.Valid {
		p.Audit = &models.AuditSummary{
			ID:     auditID.Int64,
			Status: models.AuditStatus(auditStatus.String),
		}
	}
	p.Tags = []models.Tag{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode post tags: %w", err)
		}
	}
	return &p, nil
}
