// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// events.go publishes lightweight notifications on Valkey pub/sub so that
// other processes can react to recorded access events without polling
// the database.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// AccessLogChannel carries one message per recorded access log entry.
const AccessLogChannel = "access_log_created"

// AccessEvent is the message published on AccessLogChannel.
type AccessEvent struct {
	Action       string `json:"action"`
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   int64  `json:"resource_id,omitempty"`
	UserID       int64  `json:"user_id,omitempty"`
}

// Events publishes application events to Valkey.
type Events struct {
	client *redis.Client
}

// NewEvents creates an event publisher backed by the given Valkey client.
func NewEvents(client *redis.Client) *Events {
	return &Events{client: client}
}

// AccessLogged announces a recorded access event. Publishing is
// best-effort; failures are logged only.
func (e *Events) AccessLogged(ctx context.Context, ev AccessEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("access event marshal error", "action", ev.Action, "error", err)
		return
	}
	if err := e.client.Publish(ctx, AccessLogChannel, payload).Err(); err != nil {
		slog.Warn("access event publish error", "action", ev.Action, "error", err)
		return
	}
	slog.Debug("access event published", "action", ev.Action)
}

// SubscribeAccessLog subscribes to AccessLogChannel. The caller must close
// the returned subscription.
func (e *Events) SubscribeAccessLog(ctx context.Context) *redis.PubSub {
	return e.client.Subscribe(ctx, AccessLogChannel)
}

// DecodeAccessEvent parses a message received on AccessLogChannel.
func DecodeAccessEvent(msg *redis.Message) (AccessEvent, error) {
	var ev AccessEvent
	if msg.Channel != AccessLogChannel {
		return ev, fmt.Errorf("unexpected channel %q", msg.Channel)
	}
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		return ev, fmt.Errorf("decode access event: %w", err)
	}
	return ev, nil
}
