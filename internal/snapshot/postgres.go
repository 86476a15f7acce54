package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"triada/internal/logger"
	"triada/internal/match"
	"triada/internal/retry"
)

// PostgresStore keeps the snapshot log and the special-category list in
// PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and ensures the schema exists.
// The initial ping is retried because the database may still be coming up
// when the service starts.
func NewPostgresStore(ctx context.Context, connectionString string, policy retry.Policy) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := retry.Do(ctx, policy, func() error {
		return db.PingContext(ctx)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("snapshot store connected")
	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bias_matched_snapshots (
		id SERIAL PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_bias_matched_snapshots_created_at
		ON bias_matched_snapshots(created_at DESC);

	CREATE TABLE IF NOT EXISTS source_categories (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		is_special BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := ps.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveSnapshot appends a new snapshot row. Existing rows are never touched.
func (ps *PostgresStore) SaveSnapshot(ctx context.Context, payload match.Result) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	query := `INSERT INTO bias_matched_snapshots (payload, created_at) VALUES ($1, NOW())`
	if _, err := ps.db.ExecContext(ctx, query, data); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot reads the most recently created snapshot, or (nil, nil)
// when the log is empty.
func (ps *PostgresStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT payload, created_at
		FROM bias_matched_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		data      []byte
		createdAt time.Time
	)
	err := ps.db.QueryRowContext(ctx, query).Scan(&data, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest snapshot: %w", err)
	}

	var payload match.Result
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	return &Snapshot{Payload: payload, CreatedAt: createdAt}, nil
}

// SpecialCategoryNames lists the special topic categories used for tag
// enrichment.
func (ps *PostgresStore) SpecialCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT name FROM source_categories WHERE is_special = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list special categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
