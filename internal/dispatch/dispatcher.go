// Package dispatch routes each incoming MCP request to its tenant. The
// dispatcher resolves the X-Client-ID header against the tenant directory,
// builds a request-scoped store client, and serves the exchange through an
// ephemeral MCP server whose tools are bound to that client alone.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
	"github.com/storelink/woo-mcp-gateway/internal/tenant"
	"github.com/storelink/woo-mcp-gateway/internal/tools"
	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// TenantHeader selects the tenant for a request.
const TenantHeader = "X-Client-ID"

// ClientFactory builds the store client for a resolved tenant. Injected in
// tests to count constructions and to point at fake upstreams.
type ClientFactory func(rec tenant.Record) *woo.Client

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClientFactory replaces the default store client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(d *Dispatcher) { d.factory = f }
}

// WithStore enables best-effort invocation auditing.
func WithStore(s storage.Store) Option {
	return func(d *Dispatcher) { d.store = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithServerInfo overrides the name and version announced to MCP clients.
func WithServerInfo(name, version string) Option {
	return func(d *Dispatcher) {
		d.serverName = name
		d.serverVersion = version
	}
}

// Dispatcher is the multi-tenant front door. It holds only immutable shared
// state; everything mutable lives in the per-request context.
type Dispatcher struct {
	directory *tenant.Directory
	registry  *tools.Registry
	factory   ClientFactory
	store     storage.Store
	logger    *slog.Logger

	serverName    string
	serverVersion string
}

// New creates a Dispatcher over the given directory and tool registry.
func New(directory *tenant.Directory, registry *tools.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		directory: directory,
		registry:  registry,
		factory: func(rec tenant.Record) *woo.Client {
			return woo.NewClient(rec.StoreURL, rec.ConsumerKey, rec.ConsumerSecret)
		},
		logger:        slog.Default(),
		serverName:    "woo-mcp-multiclient",
		serverVersion: "1.0.0",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := r.Header.Get(TenantHeader)
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "missing_client_id",
			"the "+TenantHeader+" header is required")
		return
	}

	rec, err := d.directory.Resolve(clientID)
	if err != nil {
		d.logger.Warn("unknown tenant", "client_id", clientID)
		writeError(w, http.StatusNotFound, "unknown_client_id",
			"no tenant is registered for client ID "+clientID)
		return
	}

	rc := &RequestContext{
		ID:     uuid.New().String(),
		Tenant: rec,
		Client: d.factory(rec),
	}
	start := time.Now()
	rc.onClose = func() {
		d.logger.Info("request finished",
			"request_id", rc.ID,
			"client_id", rec.ClientID,
			"duration", time.Since(start))
	}
	defer rc.Close()

	// Stateless: every POST carries a full JSON-RPC exchange and nothing is
	// kept between requests, so a handler built per request is sound.
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return d.buildServer(rc)
	}, &mcp.StreamableHTTPOptions{Stateless: true})
	handler.ServeHTTP(w, r)
}

// buildServer assembles the ephemeral MCP server for one request. Every tool
// handler closes over this request's client; nothing tenant-specific is
// shared.
func (d *Dispatcher) buildServer(rc *RequestContext) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    d.serverName,
		Version: d.serverVersion,
	}, nil)

	for _, desc := range d.registry.List() {
		name := desc.Name
		srv.AddTool(&mcp.Tool{
			Name:        name,
			Description: desc.Description,
			InputSchema: desc.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			started := time.Now()
			var raw json.RawMessage
			if req.Params != nil {
				raw = req.Params.Arguments
			}
			result, err := d.registry.Invoke(ctx, name, rc.Client, raw)
			d.audit(ctx, rc, name, started, result, err)
			return result, err
		})
	}
	return srv
}

// audit logs the call and, when a store is configured, records it.
// Persistence failures are logged and swallowed; auditing never fails a call.
func (d *Dispatcher) audit(ctx context.Context, rc *RequestContext, tool string, started time.Time, result *mcp.CallToolResult, err error) {
	duration := time.Since(started)
	isError := err != nil || (result != nil && result.IsError)
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}

	d.logger.Info("tool call",
		"request_id", rc.ID,
		"client_id", rc.Tenant.ClientID,
		"tool", tool,
		"duration", duration,
		"is_error", isError)

	if d.store == nil {
		return
	}
	inv := &storage.Invocation{
		ID:           uuid.New().String(),
		TenantID:     rc.Tenant.ClientID,
		RequestID:    rc.ID,
		Tool:         tool,
		DurationNS:   duration.Nanoseconds(),
		IsError:      isError,
		ErrorMessage: errMsg,
		CreatedAt:    time.Now(),
	}
	// The call's context may already be cancelled by the time we get here.
	if rerr := d.store.RecordInvocation(context.WithoutCancel(ctx), inv); rerr != nil {
		d.logger.Warn("failed to record invocation", "error", rerr)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"type":    code,
			"message": message,
		},
	})
}
