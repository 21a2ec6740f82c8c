package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
	"github.com/storelink/woo-mcp-gateway/internal/storage/memory"
	"github.com/storelink/woo-mcp-gateway/internal/tenant"
	"github.com/storelink/woo-mcp-gateway/internal/tools"
	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

func testDirectory(t *testing.T) *tenant.Directory {
	t.Helper()
	dir, err := tenant.NewDirectory([]tenant.Record{
		{ClientID: "alpha", StoreURL: "https://alpha.example.com", ConsumerKey: "ck_a", ConsumerSecret: "cs_a"},
		{ClientID: "beta", StoreURL: "https://beta.example.com", ConsumerKey: "ck_b", ConsumerSecret: "cs_b"},
	})
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return dir
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r, err := tools.NewRegistry(tools.Defaults()...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

// fakeWoo serves a minimal products endpoint whose payload names the store,
// so cross-tenant bleed shows up in the response text.
func fakeWoo(t *testing.T, storeName string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/wp-json/wc/v3/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `[{"id": 1, "name": "Widget from %s", "price": "9.99", "permalink": "https://%s/widget"}]`, storeName, storeName)
	}))
	t.Cleanup(ts.Close)
	return ts
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// mcpHTTPClient injects the tenant header on every request, the way a real
// MCP connector is configured.
func mcpHTTPClient(clientID string) *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			clone := r.Clone(r.Context())
			if clientID != "" {
				clone.Header.Set(TenantHeader, clientID)
			}
			return http.DefaultTransport.RoundTrip(clone)
		}),
	}
}

func connect(t *testing.T, ctx context.Context, endpoint, clientID string) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	sess, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: mcpHTTPClient(clientID),
	}, nil)
	if err != nil {
		t.Fatalf("Connect as %q: %v", clientID, err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestMissingClientIDHeader(t *testing.T) {
	factoryCalls := int32(0)
	d := New(testDirectory(t), testRegistry(t), WithClientFactory(func(rec tenant.Record) *woo.Client {
		atomic.AddInt32(&factoryCalls, 1)
		return woo.NewClient(rec.StoreURL, rec.ConsumerKey, rec.ConsumerSecret)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.Type != "missing_client_id" {
		t.Errorf("error type = %q", body.Error.Type)
	}
	if !strings.Contains(body.Error.Message, TenantHeader) {
		t.Errorf("message should name the header: %q", body.Error.Message)
	}
	if atomic.LoadInt32(&factoryCalls) != 0 {
		t.Errorf("client factory ran %d times without a tenant", factoryCalls)
	}
}

func TestUnknownClientID(t *testing.T) {
	factoryCalls := int32(0)
	d := New(testDirectory(t), testRegistry(t), WithClientFactory(func(rec tenant.Record) *woo.Client {
		atomic.AddInt32(&factoryCalls, 1)
		return woo.NewClient(rec.StoreURL, rec.ConsumerKey, rec.ConsumerSecret)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	req.Header.Set(TenantHeader, "ghost")
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if atomic.LoadInt32(&factoryCalls) != 0 {
		t.Errorf("client factory ran %d times for an unknown tenant", factoryCalls)
	}
}

func TestRequestContextCloseOnce(t *testing.T) {
	closes := 0
	rc := &RequestContext{ID: "r1", onClose: func() { closes++ }}

	rc.Close()
	rc.Close()
	rc.Close()

	if closes != 1 {
		t.Errorf("onClose ran %d times, want 1", closes)
	}
}

func TestEndToEndToolCall(t *testing.T) {
	upstream := fakeWoo(t, "alpha-store")

	d := New(testDirectory(t), testRegistry(t), WithClientFactory(func(rec tenant.Record) *woo.Client {
		return woo.NewClient(upstream.URL, rec.ConsumerKey, rec.ConsumerSecret)
	}))
	gateway := httptest.NewServer(d)
	defer gateway.Close()

	ctx := context.Background()
	sess := connect(t, ctx, gateway.URL, "alpha")

	listed, err := sess.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(listed.Tools) != 8 {
		t.Errorf("tools listed = %d, want 8", len(listed.Tools))
	}

	res, err := sess.CallTool(ctx, &mcp.CallToolParams{Name: "listWooProducts"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("IsError: %+v", res.Content)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Widget from alpha-store") {
		t.Errorf("result = %s", text)
	}
}

func TestCrossTenantIsolation(t *testing.T) {
	stores := map[string]*httptest.Server{
		"alpha": fakeWoo(t, "alpha-store"),
		"beta":  fakeWoo(t, "beta-store"),
	}

	d := New(testDirectory(t), testRegistry(t), WithClientFactory(func(rec tenant.Record) *woo.Client {
		return woo.NewClient(stores[rec.ClientID].URL, rec.ConsumerKey, rec.ConsumerSecret)
	}))
	gateway := httptest.NewServer(d)
	defer gateway.Close()

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range []string{"alpha", "beta"} {
		for range 4 {
			g.Go(func() error {
				sess := connect(t, ctx, gateway.URL, id)
				res, err := sess.CallTool(ctx, &mcp.CallToolParams{Name: "listWooProducts"})
				if err != nil {
					return err
				}
				text := res.Content[0].(*mcp.TextContent).Text
				if !strings.Contains(text, "Widget from "+id+"-store") {
					return fmt.Errorf("tenant %s saw: %s", id, text)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestInvocationAudit(t *testing.T) {
	upstream := fakeWoo(t, "alpha-store")
	store := memory.New()

	d := New(testDirectory(t), testRegistry(t),
		WithStore(store),
		WithClientFactory(func(rec tenant.Record) *woo.Client {
			return woo.NewClient(upstream.URL, rec.ConsumerKey, rec.ConsumerSecret)
		}))
	gateway := httptest.NewServer(d)
	defer gateway.Close()

	ctx := context.Background()
	sess := connect(t, ctx, gateway.URL, "alpha")
	if _, err := sess.CallTool(ctx, &mcp.CallToolParams{Name: "listWooProducts"}); err != nil {
		t.Fatalf("CallTool: %v", err)
	}

	recorded, err := store.ListInvocations(ctx, storage.ListOptions{TenantID: "alpha"})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("recorded = %d invocations, want 1", len(recorded))
	}
	inv := recorded[0]
	if inv.Tool != "listWooProducts" || inv.IsError {
		t.Errorf("invocation = %+v", inv)
	}
	if inv.RequestID == "" || inv.DurationNS <= 0 {
		t.Errorf("invocation missing request metadata: %+v", inv)
	}
}
