// Package eventstore persists an append-only record of registry build and
// link verification events for after-the-fact inspection.
package eventstore

import (
	"context"
	"time"
)

// Event types recorded by the registry service.
const (
	TypeBuildStarted    = "build_started"
	TypeBuildCompleted  = "build_completed"
	TypeBuildFailed     = "build_failed"
	TypeVerifyCompleted = "verify_completed"
)

// Event is one recorded occurrence tied to a build.
type Event struct {
	ID        int64             `json:"id"`
	BuildID   string            `json:"build_id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Store is an append-only event log.
type Store interface {
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)
	Close() error
}
