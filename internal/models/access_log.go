package models

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the access log.
const (
	ActionListPosts = "list_posts"
	ActionReadPost  = "read_post"
	ActionReadUser  = "read_user"
)

// TrackedActions lists every action the access log records.
var TrackedActions = []string{ActionListPosts, ActionReadPost, ActionReadUser}

// AccessLog records one successful request to a tracked action.
type AccessLog struct {
	ID           int64      `json:"id"`
	UserID       *int64     `json:"user_id,omitempty"`
	UserName     string     `json:"user_name"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   *int64     `json:"resource_id,omitempty"`
	Payload      string     `json:"payload"`
	IP           string     `json:"ip"`
	Origin       string     `json:"origin"`
	UserAgent    string     `json:"user_agent"`
	Referer      string     `json:"referer"`
	RequestID    *uuid.UUID `json:"request_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AccessCount is the number of recorded events of one action.
type AccessCount struct {
	Action string `json:"action"`
	Value  int    `json:"value"`
}

// AccessBucket is the number of events of one action inside a time
// bucket starting at Time.
type AccessBucket struct {
	Time  time.Time `json:"time"`
	Value int       `json:"value"`
}
