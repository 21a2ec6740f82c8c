package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/storelink/woo-mcp-gateway/internal/storage"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sqlx.DB
}

var _ storage.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and prepares the schema.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invocations (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			request_id TEXT NOT NULL,
			tool TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			is_error INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_tenant ON invocations(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_created ON invocations(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	return nil
}

func (s *Store) RecordInvocation(ctx context.Context, inv *storage.Invocation) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO invocations (id, tenant_id, request_id, tool, duration_ns, is_error, error_message, created_at)
		VALUES (:id, :tenant_id, :request_id, :tool, :duration_ns, :is_error, :error_message, :created_at)`, inv)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

func (s *Store) ListInvocations(ctx context.Context, opts storage.ListOptions) ([]*storage.Invocation, error) {
	query := `SELECT id, tenant_id, request_id, tool, duration_ns, is_error, error_message, created_at
		FROM invocations WHERE 1=1`
	args := []any{}
	if opts.TenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, opts.TenantID)
	}
	if opts.Tool != "" {
		query += " AND tool = ?"
		args = append(args, opts.Tool)
	}
	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	invocations := []*storage.Invocation{}
	if err := s.db.SelectContext(ctx, &invocations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invocations: %w", err)
	}
	return invocations, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
