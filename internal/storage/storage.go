// Package storage defines the invocation audit trail. Every tool call a
// tenant makes can be recorded for later inspection; recording is best-effort
// and never blocks or fails the call itself.
package storage

import (
	"context"
	"time"
)

// Invocation is one recorded tool call.
type Invocation struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenant_id"`
	RequestID    string    `db:"request_id" json:"request_id"`
	Tool         string    `db:"tool" json:"tool"`
	DurationNS   int64     `db:"duration_ns" json:"duration_ns"`
	IsError      bool      `db:"is_error" json:"is_error"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ListOptions filters and pages ListInvocations.
type ListOptions struct {
	TenantID string
	Tool     string
	Limit    int
	Offset   int
}

// Store persists invocations.
type Store interface {
	RecordInvocation(ctx context.Context, inv *Invocation) error
	ListInvocations(ctx context.Context, opts ListOptions) ([]*Invocation, error)
	Close() error
}
