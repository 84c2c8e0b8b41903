// Command migrate applies, lists and scaffolds the SQL migrations of the
// user_profiles schema.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"finmatch-backend/internal/config"
	"finmatch-backend/internal/database"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/migrate"
	"finmatch-backend/migrations"
)

// openFunc opens the database the commands run against. It receives the same
// connection settings the server uses, TLS included.
type openFunc func(cc pgx.ConnConfig) (*sql.DB, error)

type rootFlags struct {
	dir         string
	databaseURL string
	logLevel    string
}

func main() {
	config.LoadEnvFile()

	open := func(cc pgx.ConnConfig) (*sql.DB, error) { return stdlib.OpenDB(cc), nil }
	if err := newRootCmd(os.Stdout, open, time.Now).Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, open openFunc, now func() time.Time) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage user_profiles schema migrations",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dir, "dir", os.Getenv("MIGRATIONS_DIR"), "Migrations directory (default: the files built into the binary)")
	pf.StringVar(&flags.databaseURL, "database-url", "", "PostgreSQL URL (default: DATABASE_URL or DB_* variables)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration in filename order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, closeDB, err := newRunner(flags, open, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB()

			applied, err := runner.Up(cmd.Context())
			for _, name := range applied {
				fmt.Fprintf(out, "applied  %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "no pending migrations")
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, closeDB, err := newRunner(flags, open, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB()

			st, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range st.Applied {
				fmt.Fprintf(out, "applied  %s  %s\n", rec.Filename, rec.ExecutedAt.UTC().Format(time.RFC3339))
			}
			for _, name := range st.Pending {
				fmt.Fprintf(out, "pending  %s\n", name)
			}
			fmt.Fprintf(out, "%d applied, %d pending\n", len(st.Applied), len(st.Pending))
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Write an empty timestamped migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := flags.dir
			if dir == "" {
				dir = "migrations"
			}
			path, err := migrate.Create(dir, args[0], now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "created  %s\n", path)
			return nil
		},
	}

	root.AddCommand(upCmd, statusCmd, createCmd)
	root.SetContext(context.Background())
	return root
}

func newRunner(flags rootFlags, open openFunc, logOut io.Writer) (*migrate.Runner, func(), error) {
	dbCfg := config.FromEnv().Database
	if flags.databaseURL != "" {
		dbCfg.URL = flags.databaseURL
	}
	pcfg, err := database.PoolConfig(dbCfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := open(*pcfg.ConnConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	var files fs.FS = migrations.FS
	if flags.dir != "" {
		files = os.DirFS(flags.dir)
	}

	log := logging.NewJSONLogger(logOut, flags.logLevel)
	return migrate.NewRunner(db, files, log), func() { _ = db.Close() }, nil
}
