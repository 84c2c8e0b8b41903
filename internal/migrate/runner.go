// Package migrate applies the *.sql files of a directory to PostgreSQL in
// filename order, each exactly once. Applied files are recorded in the
// migrations ledger table in the same transaction as their own SQL.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"finmatch-backend/internal/database"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/models"
)

const ledgerDDL = `CREATE TABLE IF NOT EXISTS migrations (
	id SERIAL PRIMARY KEY,
	filename VARCHAR(255) NOT NULL UNIQUE,
	executed_at TIMESTAMP DEFAULT NOW()
)`

type Runner struct {
	db    *sql.DB
	files fs.FS
	log   logging.Logger
}

func NewRunner(db *sql.DB, files fs.FS, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{db: db, files: files, log: log.With("component", "migrate")}
}

// Status lists what has been applied and what is still pending.
type Status struct {
	Applied []models.MigrationRecord
	Pending []string
}

// Up applies every pending file and returns the names it applied. The first
// failing file is rolled back and stops the run; files applied before it stay
// applied.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	st, err := r.Status(ctx)
	if err != nil {
		return nil, err
	}
	if len(st.Pending) == 0 {
		r.log.Info(ctx, "no pending migrations", "applied", len(st.Applied))
		return nil, nil
	}

	var done []string
	for _, name := range st.Pending {
		if err := r.apply(ctx, name); err != nil {
			r.log.Error(ctx, "migration failed", "file", name, "error", err)
			return done, fmt.Errorf("migration %s: %w", name, err)
		}
		r.log.Info(ctx, "migration applied", "file", name)
		done = append(done, name)
	}
	return done, nil
}

// Status creates the ledger table if needed, then compares it to the files.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	if _, err := r.db.ExecContext(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}

	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	files, err := r.sqlFiles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(applied))
	for _, rec := range applied {
		seen[rec.Filename] = true
	}
	st := &Status{Applied: applied}
	for _, f := range files {
		if !seen[f] {
			st.Pending = append(st.Pending, f)
		}
	}
	return st, nil
}

func (r *Runner) applied(ctx context.Context) ([]models.MigrationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, filename, executed_at FROM migrations ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	var out []models.MigrationRecord
	for rows.Next() {
		var rec models.MigrationRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Runner) sqlFiles() ([]string, error) {
	names, err := fs.Glob(r.files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (r *Runner) apply(ctx context.Context, name string) error {
	body, err := fs.ReadFile(r.files, name)
	if err != nil {
		return err
	}
	return database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO migrations (filename) VALUES ($1)`, name)
		return err
	})
}

var unsafeName = regexp.MustCompile(`[^a-z0-9_]+`)

// Create writes an empty, timestamped migration file into dir and returns
// its path.
func Create(dir, name string, now time.Time) (string, error) {
	clean := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_"), "_")
	if clean == "" {
		return "", errors.New("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	now = now.UTC()
	filename := now.Format("20060102150405") + "_" + clean + ".sql"
	path := filepath.Join(dir, filename)

	template := fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- Add your SQL here
-- Example:
-- ALTER TABLE user_profiles ADD COLUMN new_field TEXT;
-- CREATE INDEX idx_example ON table_name(column_name);
`, clean, now.Format(time.RFC3339))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(template); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
