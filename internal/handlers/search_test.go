// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shutterpress/internal/models"
)

func TestSearchTags(t *testing.T) {
	tags := &fakeTags{}
	for _, name := range []string{"film", "filter", "street"} {
		tags.Ensure(context.Background(), name)
	}
	h := NewSearch(tags, &fakeFiles{}, &fakeUsers{})

	rr := serve(h.Tags, newRequest(http.MethodGet, "/search/tags?name=fil", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got []models.Tag
	decodeBody(t, rr, &got)
	if len(got) != 2 {
		t.Errorf("tags = %+v, want film and filter", got)
	}

	rr = serve(h.Tags, newRequest(http.MethodGet, "/search/tags?name=%20", "", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", rr.Code)
	}
}

func TestSearchCameras(t *testing.T) {
	files := &fakeFiles{cameras: []models.Camera{{Make: "FUJIFILM", Model: "X100V"}}}
	h := NewSearch(&fakeTags{}, files, &fakeUsers{})

	rr := serve(h.Cameras, newRequest(http.MethodGet, "/search/cameras?makeModel=fuji", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got []models.Camera
	decodeBody(t, rr, &got)
	if len(got) != 1 || got[0].Model != "X100V" {
		t.Errorf("cameras = %+v", got)
	}

	rr = serve(h.Cameras, newRequest(http.MethodGet, "/search/cameras", "", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing makeModel status = %d, want 400", rr.Code)
	}
}

func TestSearchLenses(t *testing.T) {
	files := &fakeFiles{lenses: []models.Lens{{Make: "Canon", Model: "EF50mm f/1.8 STM"}}}
	h := NewSearch(&fakeTags{}, files, &fakeUsers{})

	rr := serve(h.Lenses, newRequest(http.MethodGet, "/search/lens?makeModel=ef50", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got []models.Lens
	decodeBody(t, rr, &got)
	if len(got) != 1 || got[0].Make != "Canon" {
		t.Errorf("lenses = %+v", got)
	}

	rr = serve(h.Lenses, newRequest(http.MethodGet, "/search/lens?makeModel=", "", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty makeModel status = %d, want 400", rr.Code)
	}
}

func TestSearchUsers(t *testing.T) {
	users := &fakeUsers{}
	for _, name := range []string{"marta", "mateo"} {
		users.Create(context.Background(), name, "x", models.RoleAuthor)
	}
	h := NewSearch(&fakeTags{}, &fakeFiles{}, users)

	rr := serve(h.Users, newRequest(http.MethodGet, "/search/users?name=mar", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got []models.UserSummary
	decodeBody(t, rr, &got)
	if len(got) != 1 || got[0].Name != "marta" {
		t.Errorf("users = %+v, want marta", got)
	}

	rr = serve(h.Users, newRequest(http.MethodGet, "/search/users", "", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rr.Code)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	rr := serve(Health(fakePinger{}), newRequest(http.MethodGet, "/health", "", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rr.Code)
	}
	rr = serve(Health(fakePinger{err: errors.New("down")}), newRequest(http.MethodGet, "/health", "", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rr.Code)
	}
}
