package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListInvocations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	invs := []*storage.Invocation{
		{ID: "a", TenantID: "alpha", RequestID: "r1", Tool: "listWooProducts", DurationNS: 1200, CreatedAt: base},
		{ID: "b", TenantID: "beta", RequestID: "r2", Tool: "createOrder", DurationNS: 9800, IsError: true, ErrorMessage: "boom", CreatedAt: base.Add(time.Second)},
		{ID: "c", TenantID: "alpha", RequestID: "r3", Tool: "createOrder", DurationNS: 4100, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, inv := range invs {
		if err := s.RecordInvocation(ctx, inv); err != nil {
			t.Fatalf("RecordInvocation(%s): %v", inv.ID, err)
		}
	}

	all, err := s.ListInvocations(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d invocations, want 3", len(all))
	}
	if all[0].ID != "c" {
		t.Errorf("newest first: got %q", all[0].ID)
	}

	alpha, err := s.ListInvocations(ctx, storage.ListOptions{TenantID: "alpha"})
	if err != nil {
		t.Fatalf("ListInvocations(alpha): %v", err)
	}
	if len(alpha) != 2 {
		t.Errorf("alpha invocations = %d, want 2", len(alpha))
	}

	failed, err := s.ListInvocations(ctx, storage.ListOptions{TenantID: "beta", Tool: "createOrder"})
	if err != nil {
		t.Fatalf("ListInvocations(beta/createOrder): %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("got %d, want 1", len(failed))
	}
	if !failed[0].IsError || failed[0].ErrorMessage != "boom" {
		t.Errorf("invocation = %+v", failed[0])
	}
}

func TestListLimitAndOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i, id := range []string{"a", "b", "c", "d"} {
		err := s.RecordInvocation(ctx, &storage.Invocation{
			ID: id, TenantID: "alpha", RequestID: "r-" + id, Tool: "listWooProducts",
			DurationNS: 100, CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordInvocation: %v", err)
		}
	}

	page, err := s.ListInvocations(ctx, storage.ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "b" {
		t.Errorf("page = %+v", page)
	}
}

func TestDefaultsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RecordInvocation(ctx, &storage.Invocation{
		ID: "x", TenantID: "alpha", RequestID: "r", Tool: "checkCoupon", DurationNS: 50,
	})
	if err != nil {
		t.Fatalf("RecordInvocation: %v", err)
	}

	got, err := s.ListInvocations(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted on insert")
	}
}
