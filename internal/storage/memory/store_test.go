package memory

import (
	"context"
	"testing"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
)

func record(t *testing.T, s *Store, id, tenantID, tool string, isError bool) {
	t.Helper()
	err := s.RecordInvocation(context.Background(), &storage.Invocation{
		ID: id, TenantID: tenantID, RequestID: "req-" + id, Tool: tool,
		DurationNS: 1000, IsError: isError,
	})
	if err != nil {
		t.Fatalf("RecordInvocation: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	s := New()
	defer s.Close()

	record(t, s, "1", "alpha", "listWooProducts", false)
	record(t, s, "2", "beta", "createOrder", true)
	record(t, s, "3", "alpha", "createOrder", false)

	all, err := s.ListInvocations(context.Background(), storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d invocations, want 3", len(all))
	}
	// Newest first.
	if all[0].ID != "3" || all[2].ID != "1" {
		t.Errorf("order = [%s %s %s]", all[0].ID, all[1].ID, all[2].ID)
	}
	if all[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted")
	}
}

func TestListFilters(t *testing.T) {
	s := New()
	defer s.Close()

	record(t, s, "1", "alpha", "listWooProducts", false)
	record(t, s, "2", "beta", "createOrder", true)
	record(t, s, "3", "alpha", "createOrder", false)

	byTenant, err := s.ListInvocations(context.Background(), storage.ListOptions{TenantID: "alpha"})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(byTenant) != 2 {
		t.Errorf("alpha invocations = %d, want 2", len(byTenant))
	}

	byTool, err := s.ListInvocations(context.Background(), storage.ListOptions{Tool: "createOrder"})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(byTool) != 2 {
		t.Errorf("createOrder invocations = %d, want 2", len(byTool))
	}

	paged, err := s.ListInvocations(context.Background(), storage.ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != "2" {
		t.Errorf("paged = %+v", paged)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := New()
	defer s.Close()
	record(t, s, "1", "alpha", "listWooProducts", false)

	first, _ := s.ListInvocations(context.Background(), storage.ListOptions{})
	first[0].Tool = "mutated"

	second, _ := s.ListInvocations(context.Background(), storage.ListOptions{})
	if second[0].Tool != "listWooProducts" {
		t.Error("caller mutation leaked into the store")
	}
}
