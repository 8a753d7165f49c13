// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory stores and request helpers shared by
// the handler tests.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"shutterpress/internal/listing"
	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
	"shutterpress/internal/session"
	"shutterpress/internal/storage"
	"shutterpress/internal/store"
)

var (
	adminSession  = &session.Data{UserID: 1, Name: "admin", Role: models.RoleAdmin}
	ownerSession  = &session.Data{UserID: 2, Name: "owner", Role: models.RoleAuthor}
	strangerSess  = &session.Data{UserID: 3, Name: "stranger", Role: models.RoleAuthor}
	errStoreBroke = errors.New("connection reset")
)

// newRequest builds a request carrying sess (nil for anonymous) and chi
// URL parameters given as key, value pairs.
func newRequest(method, target, body string, sess *session.Data, params ...string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}

	ctx := r.Context()
	if sess != nil {
		ctx = middleware.WithSession(ctx, sess)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

// errorMessage returns the message of a JSON error response.
func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, rr, &body)
	return body.Message
}

// fakePosts is an in-memory PostStore.
type fakePosts struct {
	posts    map[int64]*models.Post
	tags     map[[2]int64]bool
	nextID   int64
	listed   listing.Options
	total    int
	err      error
	deleted  []int64
	attached [][2]int64
}

func newFakePosts(posts ...*models.Post) *fakePosts {
	f := &fakePosts{posts: map[int64]*models.Post{}, tags: map[[2]int64]bool{}, nextID: 100}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePosts) List(_ context.Context, opts listing.Options) ([]models.Post, int, error) {
	f.listed = opts
	if f.err != nil {
		return nil, 0, f.err
	}
	out := []models.Post{}
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, f.total, nil
}

func (f *fakePosts) FindByID(_ context.Context, id int64, _ models.Principal) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) OwnerID(_ context.Context, id int64) (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return 0, false, nil
	}
	return p.UserID, true, nil
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	p.ID = f.nextID
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) Update(_ context.Context, id int64, c store.PostChanges) (bool, error) {
	p, ok := f.posts[id]
	if !ok {
		return false, nil
	}
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Content != nil {
		p.Content = *c.Content
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
	return true, nil
}

func (f *fakePosts) Delete(_ context.Context, id int64) error {
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePosts) AttachTag(_ context.Context, postID, tagID int64) error {
	key := [2]int64{postID, tagID}
	if f.tags[key] {
		return store.ErrTagAlreadyAttached
	}
	f.tags[key] = true
	f.attached = append(f.attached, key)
	return nil
}

func (f *fakePosts) DetachTag(_ context.Context, postID, tagID int64) (bool, error) {
	key := [2]int64{postID, tagID}
	if !f.tags[key] {
		return false, nil
	}
	delete(f.tags, key)
	return true, nil
}

// fakeAudits is an in-memory audit log; entries are kept oldest first.
type fakeAudits struct {
	logs   []models.AuditLog
	nextID int64
}

func (f *fakeAudits) Create(_ context.Context, a *models.AuditLog) error {
	f.nextID++
	a.ID = f.nextID
	f.logs = append(f.logs, *a)
	return nil
}

func (f *fakeAudits) LatestByResource(_ context.Context, resourceType string, resourceID int64) (*models.AuditLog, error) {
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].ResourceType == resourceType && f.logs[i].ResourceID == resourceID {
			a := f.logs[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAudits) ListByResource(_ context.Context, resourceType string, resourceID int64) ([]models.AuditLog, error) {
	out := []models.AuditLog{}
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].ResourceType == resourceType && f.logs[i].ResourceID == resourceID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

func (f *fakeAudits) Delete(_ context.Context, id int64) (bool, error) {
	for i, a := range f.logs {
		if a.ID == id {
			f.logs = append(f.logs[:i], f.logs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// verdict appends an audit record for a post.
func (f *fakeAudits) verdict(postID int64, status models.AuditStatus) {
	f.Create(context.Background(), &models.AuditLog{ResourceType: models.ResourcePost, ResourceID: postID, Status: status})
}

type fakeFiles struct {
	files   map[int64][]models.File
	cameras []models.Camera
	lenses  []models.Lens
}

func (f *fakeFiles) ListByPost(_ context.Context, postID int64) ([]models.File, error) {
	return f.files[postID], nil
}

func (f *fakeFiles) Cameras(_ context.Context, _ string, _ int) ([]models.Camera, error) {
	return f.cameras, nil
}

func (f *fakeFiles) Lenses(_ context.Context, _ string, _ int) ([]models.Lens, error) {
	return f.lenses, nil
}

type fakeTags struct {
	byName map[string]*models.Tag
}

func (f *fakeTags) Ensure(_ context.Context, name string) (*models.Tag, error) {
	if f.byName == nil {
		f.byName = map[string]*models.Tag{}
	}
	if t, ok := f.byName[name]; ok {
		return t, nil
	}
	t := &models.Tag{ID: int64(len(f.byName) + 1), Name: name}
	f.byName[name] = t
	return t, nil
}

func (f *fakeTags) Search(_ context.Context, prefix string, _ int) ([]models.Tag, error) {
	out := []models.Tag{}
	for name, t := range f.byName {
		if strings.HasPrefix(name, prefix) {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeObjects struct {
	deleted []string
	err     error
}

func (f *fakeObjects) DeleteObjects(_ context.Context, keys []string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, keys...)
	return nil
}

// fakeUsers stores users by name; the password is kept in PasswordHash.
type fakeUsers struct {
	byName map[string]*models.User
}

func (f *fakeUsers) Create(_ context.Context, name, password string, role models.Role) (*models.User, error) {
	if f.byName == nil {
		f.byName = map[string]*models.User{}
	}
	if _, ok := f.byName[name]; ok {
		return nil, store.ErrNameTaken
	}
	u := &models.User{ID: int64(len(f.byName) + 1), Name: name, PasswordHash: password, Role: role}
	f.byName[name] = u
	return u, nil
}

func (f *fakeUsers) Search(_ context.Context, prefix string, limit int) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for name, u := range f.byName {
		if strings.HasPrefix(name, prefix) && len(out) < limit {
			out = append(out, models.UserSummary{ID: u.ID, Name: u.Name})
		}
	}
	return out, nil
}

func (f *fakeUsers) FindByName(_ context.Context, name string) (*models.User, error) {
	return f.byName[name], nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, c store.UserChanges) (*models.User, error) {
	u, _ := f.FindByID(context.Background(), id)
	if u == nil {
		return nil, nil
	}
	if c.Name != nil {
		if other, ok := f.byName[*c.Name]; ok && other.ID != id {
			return nil, store.ErrNameTaken
		}
		delete(f.byName, u.Name)
		u.Name = *c.Name
		f.byName[u.Name] = u
	}
	if c.Password != nil {
		u.PasswordHash = *c.Password
	}
	return u, nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	return u.PasswordHash == password
}

type fakeSessions struct {
	created   []*session.Data
	updated   []*session.Data
	destroyed int
	revoked   []int64
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test"})
	return "test", nil
}

func (f *fakeSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	f.updated = append(f.updated, data)
	return nil
}

func (f *fakeSessions) RevokeUser(_ context.Context, userID int64) (int, error) {
	f.revoked = append(f.revoked, userID)
	return 1, nil
}

func (f *fakeSessions) Destroy(_ context.Context, _ http.ResponseWriter, _ *http.Request) error {
	f.destroyed++
	return nil
}

// Compile-time checks that the real stores satisfy the handler interfaces.
var (
	_ PostStore      = (*store.PostStore)(nil)
	_ LatestAudit    = (*store.AuditStore)(nil)
	_ AuditStore     = (*store.AuditStore)(nil)
	_ FileLister     = (*store.FileStore)(nil)
	_ FileSearcher   = (*store.FileStore)(nil)
	_ UserSearcher   = (*store.UserStore)(nil)
	_ AccessCounter  = (*store.AccessLogStore)(nil)
	_ TagEnsurer     = (*store.TagStore)(nil)
	_ TagSearcher    = (*store.TagStore)(nil)
	_ UserStore      = (*store.UserStore)(nil)
	_ Sessions       = (*session.Store)(nil)
	_ ObjectDeleter  = (*storage.Client)(nil)
)
