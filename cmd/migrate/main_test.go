package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const testURL = "postgres://u:p@localhost/finmatch?sslmode=disable"

// runCLI executes the root command against a sqlmock database and returns
// what it printed.
func runCLI(t *testing.T, mock func(sqlmock.Sqlmock), args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIConn(t, mock, args...)
	return out, err
}

// runCLIConn also returns the connection settings the command opened with.
func runCLIConn(t *testing.T, mock func(sqlmock.Sqlmock), args ...string) (string, *pgx.ConnConfig, error) {
	t.Helper()
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if mock != nil {
		mock(m)
	}

	var got *pgx.ConnConfig
	open := func(cc pgx.ConnConfig) (*sql.DB, error) {
		got = &cc
		return db, nil
	}

	var out bytes.Buffer
	cmd := newRootCmd(&out, open, fixedNow)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err = cmd.Execute()

	if mock != nil {
		require.NotNil(t, got)
		assert.Equal(t, "localhost", got.Host)
		assert.Equal(t, "finmatch", got.Database)
		assert.Equal(t, "u", got.User)
		assert.NoError(t, m.ExpectationsWereMet())
	}
	return out.String(), got, err
}

func expectLedger(m sqlmock.Sqlmock, applied ...string) {
	m.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "filename", "executed_at"})
	for i, f := range applied {
		rows.AddRow(int64(i+1), f, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	m.ExpectQuery("SELECT id, filename, executed_at FROM migrations").WillReturnRows(rows)
}

func TestUpCommand(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250101000000_init.sql", "CREATE TABLE t (id INT);")

	out, err := runCLI(t, func(m sqlmock.Sqlmock) {
		expectLedger(m)
		m.ExpectBegin()
		m.ExpectExec(regexp.QuoteMeta("CREATE TABLE t (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
		m.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations (filename) VALUES ($1)")).
			WithArgs("20250101000000_init.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))
		m.ExpectCommit()
	}, "up", "--dir", dir, "--database-url", testURL, "--log-level", "error")

	require.NoError(t, err)
	assert.Contains(t, out, "applied  20250101000000_init.sql")
}

func TestUpCommand_NothingPending(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250101000000_init.sql", "CREATE TABLE t (id INT);")

	out, err := runCLI(t, func(m sqlmock.Sqlmock) {
		expectLedger(m, "20250101000000_init.sql")
	}, "up", "--dir", dir, "--database-url", testURL, "--log-level", "error")

	require.NoError(t, err)
	assert.Equal(t, "no pending migrations\n", out)
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250101000000_init.sql", "SELECT 1;")
	writeMigration(t, dir, "20250201000000_more.sql", "SELECT 2;")

	out, err := runCLI(t, func(m sqlmock.Sqlmock) {
		expectLedger(m, "20250101000000_init.sql")
	}, "status", "--dir", dir, "--database-url", testURL)

	require.NoError(t, err)
	assert.Contains(t, out, "applied  20250101000000_init.sql  2025-01-01T00:00:00Z")
	assert.Contains(t, out, "pending  20250201000000_more.sql")
	assert.Contains(t, out, "1 applied, 1 pending")
}

func TestCreateCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, nil, "create", "Add Referral Index", "--dir", dir)
	require.NoError(t, err)

	want := filepath.Join(dir, "20250203040506_add_referral_index.sql")
	assert.Equal(t, "created  "+want+"\n", out)
	body, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "-- Migration: add_referral_index"))
}

func TestCreateCommand_RequiresName(t *testing.T) {
	_, err := runCLI(t, nil, "create")
	assert.Error(t, err)
}

func TestStatusCommand_UsesServerConnectionSettings(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250101000000_init.sql", "SELECT 1;")

	t.Run("tls insecure on", func(t *testing.T) {
		t.Setenv("DB_TLS_INSECURE", "true")
		_, cc, err := runCLIConn(t, func(m sqlmock.Sqlmock) { expectLedger(m) },
			"status", "--dir", dir, "--database-url", testURL)

		require.NoError(t, err)
		require.NotNil(t, cc.TLSConfig)
		assert.True(t, cc.TLSConfig.InsecureSkipVerify)
		assert.Empty(t, cc.Fallbacks)
		assert.Equal(t, pgx.QueryExecModeSimpleProtocol, cc.DefaultQueryExecMode)
		assert.Equal(t, "finmatch-backend", cc.RuntimeParams["application_name"])
	})

	t.Run("tls insecure off", func(t *testing.T) {
		t.Setenv("DB_TLS_INSECURE", "false")
		_, cc, err := runCLIConn(t, func(m sqlmock.Sqlmock) { expectLedger(m) },
			"status", "--dir", dir, "--database-url", testURL)

		require.NoError(t, err)
		assert.Nil(t, cc.TLSConfig)
	})
}
