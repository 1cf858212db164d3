package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotReadOnly is returned when the agent submits a statement that is not
// a plain SELECT (or WITH ... SELECT) query.
var ErrNotReadOnly = errors.New("only read-only SELECT queries are allowed")

const defaultMaxRows = 50

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ExecuteReadQuery runs a read-only SELECT query and returns its rows
	// rendered to strings, capped at maxRows.
	ExecuteReadQuery(ctx context.Context, query string, maxRows int) (*QueryResult, error)

	// DescribeTables lists user tables and their columns.
	DescribeTables(ctx context.Context) ([]TableInfo, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// IsReadOnlyQuery reports whether the statement is a single SELECT
// (or WITH ... SELECT) query. The check is syntactic: the agent is the only
// caller and anything it produces that is not a plain read is rejected.
func IsReadOnlyQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	trimmed = strings.TrimSuffix(trimmed, ";")
	if trimmed == "" {
		return false
	}
	// Reject statement batching outright.
	if strings.Contains(trimmed, ";") {
		return false
	}

	lowered := strings.ToLower(trimmed)
	return strings.HasPrefix(lowered, "select") || strings.HasPrefix(lowered, "with")
}

// ExecuteReadQuery runs a guarded read-only query on behalf of the agent.
// Values are rendered to strings; the result is capped at maxRows and flagged
// as truncated when more rows were available.
func (s *sqlxStore) ExecuteReadQuery(ctx context.Context, query string, maxRows int) (*QueryResult, error) {
	if !IsReadOnlyQuery(query) {
		s.logger.WarnContext(ctx, "Rejected non-read-only query", "query", query)
		return nil, ErrNotReadOnly
	}

	if maxRows <= 0 {
		maxRows = defaultMaxRows
		s.logger.DebugContext(ctx, "Invalid maxRows, using default", "default", maxRows)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error executing read query", "query", query, "error", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "Error closing query rows", "error", closeErr)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		if len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}

		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = renderValue(v)
		}
		result.Rows = append(result.Rows, rendered)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating result rows: %w", err)
	}

	s.logger.DebugContext(ctx, "Read query executed",
		"columns", len(result.Columns), "rows", len(result.Rows), "truncated", result.Truncated)
	return result, nil
}

// DescribeTables lists the user tables and their columns, skipping SQLite
// internals and the migration bookkeeping table.
func (s *sqlxStore) DescribeTables(ctx context.Context) ([]TableInfo, error) {
	var names []string
	query := `
        SELECT name FROM sqlite_master
        WHERE type = 'table'
          AND name NOT LIKE 'sqlite_%'
          AND name != 'schema_migrations'
        ORDER BY name;
    `
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing tables", "error", err)
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		var columns []string
		if err := s.db.SelectContext(ctx, &columns, `SELECT name FROM pragma_table_info(?);`, name); err != nil {
			s.logger.ErrorContext(ctx, "Error reading table columns", "table", name, "error", err)
			return nil, fmt.Errorf("failed to describe table %q: %w", name, err)
		}
		tables = append(tables, TableInfo{Name: name, Columns: columns})
	}

	return tables, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return err
	case err != nil:
		s.logger.ErrorContext(ctx, "VACUUM operation failed", "error", err)
		return fmt.Errorf("failed to run VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully.")
	return nil
}

func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case time.Time:
		return value.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
