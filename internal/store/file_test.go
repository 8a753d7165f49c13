// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"shutterpress/internal/models"
)

func TestFileStoreListAndCameras(t *testing.T) {
	db := testDB(t)
	s := NewFileStore(db)
	ctx := context.Background()
	owner := testUser(t, db, models.RoleAuthor)

	mk := uniqueName("Leica")
	p := testPost(t, db, owner, models.PostStatusPublished, true, `{"Make":"`+mk+`","Model":"M6"}`)

	files, err := s.ListByPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(files) != 1 || files[0].S3Key == "" || files[0].PostID != p.ID {
		t.Fatalf("files = %+v", files)
	}

	cameras, err := s.Cameras(ctx, mk+" m6", 10)
	if err != nil {
		t.Fatalf("Cameras: %v", err)
	}
	if len(cameras) != 1 || cameras[0] != (models.Camera{Make: mk, Model: "M6"}) {
		t.Errorf("cameras = %+v", cameras)
	}
}

func TestFileStoreLenses(t *testing.T) {
	db := testDB(t)
	s := NewFileStore(db)
	ctx := context.Background()
	owner := testUser(t, db, models.RoleAuthor)

	lensMake := uniqueName("Sigma")
	testPost(t, db, owner, models.PostStatusPublished, true,
		`{"Make":"SONY","Model":"ILCE-7M3","LensMake":"`+lensMake+`","LensModel":"35mm F1.4 DG HSM | Art"}`)
	testPost(t, db, owner, models.PostStatusPublished, true,
		`{"Make":"`+lensMake+`","Model":"body only"}`)

	lenses, err := s.Lenses(ctx, lensMake, 10)
	if err != nil {
		t.Fatalf("Lenses: %v", err)
	}
	want := models.Lens{Make: lensMake, Model: "35mm F1.4 DG HSM | Art"}
	if len(lenses) != 1 || lenses[0] != want {
		t.Errorf("lenses = %+v, want [%+v]", lenses, want)
	}

	cameras, err := s.Cameras(ctx, lensMake, 10)
	if err != nil {
		t.Fatalf("Cameras: %v", err)
	}
	if len(cameras) != 1 || cameras[0].Model != "body only" {
		t.Errorf("cameras = %+v, want only the body", cameras)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":  "plain",
		"50%":    `50\%`,
		"a_b":    `a\_b`,
		`back\s`: `back\\s`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
