// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps signed-in identities in Valkey. A session is a
// random id in an HttpOnly cookie pointing at a JSON payload whose TTL
// slides forward on every read. Each user's session ids are indexed in a
// set so all of them can be revoked at once.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"shutterpress/internal/models"
)

const (
	// CookieName is the session cookie.
	CookieName = "sp_session"

	// DefaultTTL applies when Options.TTL is zero.
	DefaultTTL = 24 * time.Hour

	keyPrefix     = "session:"
	userKeyPrefix = "user_sessions:"

	// idLength is the random id size in bytes; ids are hex encoded.
	idLength = 32
)

// Data is the session payload.
type Data struct {
	UserID    int64       `json:"user_id"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// Principal returns the identity the session acts as. A nil session is
// the anonymous principal.
func (d *Data) Principal() models.Principal {
	if d == nil {
		return models.Anonymous()
	}
	return models.NewPrincipal(d.UserID, d.Name, d.Role)
}

// Options configures a Store.
type Options struct {
	TTL    time.Duration
	Secure bool // mark the cookie Secure; set behind TLS
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Store{client: client, ttl: opts.TTL, secure: opts.Secure}
}

// Create stores data under a new id, indexes it for the user and sets
// the cookie. It returns the id.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	data.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	userKey := userKey(data.UserID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+id, payload, s.ttl)
		p.SAdd(ctx, userKey, id)
		p.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get returns the session named by the request cookie and extends its
// TTL. A missing, malformed or expired session is nil without error.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &data, nil
}

// Update replaces the payload of the request's session, keeping its id.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := cookieID(r)
	if !ok {
		return errors.New("update session: no session cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// SetXX only writes an existing key, so a revoked session stays gone.
	if err := s.client.SetXX(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Destroy removes the request's session and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer s.setCookie(w, "", -1)

	id, ok := cookieID(r)
	if !ok {
		return nil
	}

	payload, err := s.client.GetDel(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err == nil {
		if err := s.client.SRem(ctx, userKey(data.UserID), id).Err(); err != nil {
			return fmt.Errorf("unindex session: %w", err)
		}
	}
	return nil
}

// RevokeUser deletes every session of a user and returns how many were
// still indexed.
func (s *Store) RevokeUser(ctx context.Context, userID int64) (int, error) {
	userKey := userKey(userID)
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	keys = append(keys, userKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	return len(ids), nil
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// cookieID returns the session id of r if it is well formed.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || len(c.Value) != 2*idLength {
		return "", false
	}
	if _, err := hex.DecodeString(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
