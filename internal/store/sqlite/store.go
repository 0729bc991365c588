// Package sqlite provides a SQLite-backed run store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/store"
	"mortality-valuation/internal/store/sqlite/migrations"
	"mortality-valuation/internal/valuation"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ store.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveRun inserts one run.
func (s *Store) SaveRun(ctx context.Context, run store.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.Result == nil {
		return fmt.Errorf("run result is required")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	resJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	gains := run.Gains
	if gains == nil {
		gains = []analysis.HistoricalGain{}
	}
	gainsJSON, err := json.Marshal(gains)
	if err != nil {
		return fmt.Errorf("encode gains: %w", err)
	}

	sum := run.Summary()
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (
		   id,
		   created_at,
		   country,
		   base_year,
		   pre_year,
		   gamma_hat,
		   record_count,
		   config_json,
		   result_json,
		   gains_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		toMillis(createdAt),
		sum.Country,
		sum.BaseYear,
		sum.PreYear,
		sum.GammaHat,
		sum.Records,
		string(cfgJSON),
		string(resJSON),
		string(gainsJSON),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	if err := ctx.Err(); err != nil {
		return store.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return store.Run{}, fmt.Errorf("storage is not configured")
	}

	var (
		createdAt                   int64
		cfgJSON, resJSON, gainsJSON string
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT created_at, config_json, result_json, gains_json FROM runs WHERE id = ?`,
		id,
	).Scan(&createdAt, &cfgJSON, &resJSON, &gainsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, store.ErrNotFound
	}
	if err != nil {
		return store.Run{}, fmt.Errorf("get run: %w", err)
	}

	run := store.Run{ID: id, CreatedAt: fromMillis(createdAt)}
	var cfg config.Config
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		return store.Run{}, fmt.Errorf("decode config: %w", err)
	}
	run.Config = cfg
	var res valuation.Result
	if err := json.Unmarshal([]byte(resJSON), &res); err != nil {
		return store.Run{}, fmt.Errorf("decode result: %w", err)
	}
	run.Result = &res
	if err := json.Unmarshal([]byte(gainsJSON), &run.Gains); err != nil {
		return store.Run{}, fmt.Errorf("decode gains: %w", err)
	}
	if len(run.Gains) == 0 {
		run.Gains = nil
	}
	return run, nil
}

// ListRuns returns the newest runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, created_at, country, base_year, pre_year, gamma_hat, record_count
		   FROM runs
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			sum       store.RunSummary
			createdAt int64
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Country, &sum.BaseYear, &sum.PreYear, &sum.GammaHat, &sum.Records); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.CreatedAt = fromMillis(createdAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// applyMigrations runs each embedded .sql file once, in name order, recording
// applied files in schema_migrations.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range files {
		var n int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name).Scan(&n); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if n > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := sqlDB.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, toMillis(time.Now())); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}
