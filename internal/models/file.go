// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// File is an uploaded photo belonging to a post. Metadata holds the EXIF
// fields extracted at upload time (Make, Model, ...).
type File struct {
	ID           int64           `json:"id"`
	OriginalName string          `json:"original_name"`
	MimeType     string          `json:"mimetype"`
	Size         int64           `json:"size"`
	S3Key        string          `json:"-"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Metadata     json.RawMessage `json:"metadata"`
	PostID       int64           `json:"post_id"`
	UserID       int64           `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Camera is a distinct make/model pair found in file metadata.
type Camera struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Lens is a distinct EXIF LensMake/LensModel pair found in file metadata.
type Lens struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}
