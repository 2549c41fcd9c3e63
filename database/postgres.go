package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	apperrors "histograph/errors"
	"histograph/graph"
)

// PostgresStore persists events in a Postgres table, one row per version.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore connects to Postgres using the given connection string.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the events table if it does not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS graph_events (
            version BIGINT PRIMARY KEY,
            kind TEXT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_graph_events_created_at ON graph_events(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// AppendEvent inserts one committed event.
func (s *PostgresStore) AppendEvent(ctx context.Context, e graph.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return apperrors.WrapError(err, "failed to encode event")
	}

	query := `
		INSERT INTO graph_events (version, kind, payload)
		VALUES ($1, $2, $3)
	`
	if _, err := s.DB.ExecContext(ctx, query, int64(e.Version), e.Kind.String(), payload); err != nil {
		return apperrors.WrapErrorf(apperrors.ErrStorageOperation, "append event %d: %v", e.Version, err)
	}
	return nil
}

// LoadEvents reads all persisted events in version order.
func (s *PostgresStore) LoadEvents(ctx context.Context) ([]graph.Event, error) {
	query := `SELECT payload FROM graph_events ORDER BY version ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []graph.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var e graph.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, apperrors.WrapError(err, "failed to decode persisted event")
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
