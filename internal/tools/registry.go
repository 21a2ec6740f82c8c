// Package tools defines the static catalog of store operations the gateway
// exposes over MCP. The registry is built once at startup and shared,
// read-only, by every request: an execute function receives everything
// tenant-specific through the client argument and must not hold state of its
// own.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// ExecFunc runs one tool call against a tenant-scoped store client. Arguments
// have already been validated against the tool's input schema. A returned
// error is a recoverable, user-facing failure; the registry converts it into
// an IsError result rather than letting it abort the session.
type ExecFunc func(ctx context.Context, client *woo.Client, args json.RawMessage) (*mcp.CallToolResult, error)

// Tool describes one operation: metadata for listing plus the execute
// function.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Execute     ExecFunc
}

// Descriptor is the listing projection of a tool: metadata only.
type Descriptor struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// UnknownToolError reports a call to a name the registry does not know. It
// surfaces as a protocol-level fault, not a tool result.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentsError reports arguments that failed the tool's input
// schema. It carries the validation diagnostics and surfaces as a
// protocol-level fault.
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

type entry struct {
	tool     Tool
	resolved *jsonschema.Resolved
}

// Registry is the immutable tool catalog. Registration order defines listing
// order; it has no other semantic effect.
type Registry struct {
	order   []string
	entries map[string]*entry
}

// NewRegistry resolves every tool's schema and indexes by name. Duplicate
// names and unresolvable schemas are construction errors, caught at startup.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{entries: make(map[string]*entry, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if t.Execute == nil {
			return nil, fmt.Errorf("tool %s has no execute function", t.Name)
		}
		if _, dup := r.entries[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %s", t.Name)
		}
		schema := t.InputSchema
		if schema == nil {
			schema = &jsonschema.Schema{Type: "object"}
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s: %w", t.Name, err)
		}
		r.entries[t.Name] = &entry{tool: t, resolved: resolved}
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// List returns tool metadata in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.entries[name].tool
		out = append(out, Descriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

// Invoke validates rawArgs and runs the named tool against client. Unknown
// names and schema violations return typed errors; a returned error or a
// panic inside the execute function is recovered into an IsError result so a
// single failed call never tears down the session.
func (r *Registry) Invoke(ctx context.Context, name string, client *woo.Client, rawArgs json.RawMessage) (result *mcp.CallToolResult, err error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	var args any = map[string]any{}
	if len(rawArgs) > 0 {
		if uerr := json.Unmarshal(rawArgs, &args); uerr != nil {
			return nil, &InvalidArgumentsError{Tool: name, Err: uerr}
		}
	}
	if verr := e.resolved.Validate(args); verr != nil {
		return nil, &InvalidArgumentsError{Tool: name, Err: verr}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = errorResult(fmt.Sprintf("Error: tool %s panicked: %v", name, rec))
			err = nil
		}
	}()

	res, execErr := e.tool.Execute(ctx, client, rawArgs)
	if execErr != nil {
		return errorResult(fmt.Sprintf("Error: %v", execErr)), nil
	}
	return res, nil
}
