package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLiteClient opens (creating if needed) the database file at path and migrates it.
// ":memory:" gives a private in-memory database.
func NewSQLiteClient(ctx context.Context, path string, log *zap.Logger) (*SQLiteClient, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &SQLiteClient{DB: db}
	if err := client.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info("connected to sqlite", zap.String("path", path))

	return client, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone_number_id TEXT UNIQUE,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id INTEGER NOT NULL,
		phone TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		interest_type TEXT NOT NULL DEFAULT 'other',
		followup_sent INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_tenant ON messages (tenant_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_followup ON messages (interest_type, followup_sent, created_at)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		admission_date TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_tenant ON students (tenant_id, created_at)`,
}

// Migrate creates the tables if they do not exist yet.
// Timestamps are unix seconds, except messages.created_at which is unix milliseconds.
func (s *SQLiteClient) Migrate(ctx context.Context) error {
	for _, ddl := range sqliteSchema {
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteClient) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLiteClient) Close() error {
	return s.DB.Close()
}
