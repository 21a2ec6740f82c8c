package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
)

// Store is an in-memory implementation of storage.Store.
type Store struct {
	mu          sync.RWMutex
	invocations []*storage.Invocation
}

var _ storage.Store = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) RecordInvocation(ctx context.Context, inv *storage.Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *inv
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.invocations = append(s.invocations, &cp)
	return nil
}

func (s *Store) ListInvocations(ctx context.Context, opts storage.ListOptions) ([]*storage.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*storage.Invocation, 0, len(s.invocations))
	// Newest first.
	for i := len(s.invocations) - 1; i >= 0; i-- {
		inv := s.invocations[i]
		if opts.TenantID != "" && inv.TenantID != opts.TenantID {
			continue
		}
		if opts.Tool != "" && inv.Tool != opts.Tool {
			continue
		}
		matched = append(matched, inv)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []*storage.Invocation{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	out := make([]*storage.Invocation, len(matched))
	for i, inv := range matched {
		cp := *inv
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
