// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all shutterpress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"shutterpress/internal/models"
)

// ErrNameTaken is returned when a user name is already registered.
var ErrNameTaken = errors.New("user name already taken")

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, password_hash, role, created_at, updated_at`

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

// FindByName retrieves a user by name. Returns nil if not found.
func (s *UserStore) FindByName(ctx context.Context, name string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by name: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password. Returns
// ErrNameTaken if the name is in use.
func (s *UserStore) Create(ctx context.Context, name, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{}
	err = scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		name, string(hash), string(role)), u)
	if isUniqueViolation(err) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UserChanges lists the fields Update writes. Nil fields are kept.
type UserChanges struct {
	Name     *string
	Password *string
}

// Update applies changes to a user, hashing a new password. It returns
// nil if the user does not exist and ErrNameTaken if the new name is in
// use.
func (s *UserStore) Update(ctx context.Context, id int64, c UserChanges) (*models.User, error) {
	var hash *string
	if c.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hs := string(h)
		hash = &hs
	}

	u := &models.User{}
	err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			password_hash = COALESCE($3, password_hash),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, c.Name, hash), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user by id. Their posts cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Search returns users whose name starts with prefix, with their count
// of published posts, in name order.
func (s *UserStore) Search(ctx context.Context, prefix string, limit int) ([]models.UserSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name,
			(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id AND p.status = 'published')
		FROM users u
		WHERE u.name LIKE $1 || '%'
		ORDER BY u.name ASC
		LIMIT $2
	`, escapeLike(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.TotalPosts); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
