// @title FinMatch Backend API
// @version 1.0
// @description Signup, notification and account API for the FinMatch bookkeeping service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@finmatch.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	_ "finmatch-backend/docs" // This is required for swagger
	"finmatch-backend/internal/config"
	"finmatch-backend/internal/database"
	"finmatch-backend/internal/email"
	"finmatch-backend/internal/handlers"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/migrate"
	"finmatch-backend/internal/routes"
	"finmatch-backend/internal/signup"
	"finmatch-backend/internal/store"
	"finmatch-backend/internal/validation"
	"finmatch-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSONLogger(os.Stderr, "error").Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	log := logging.NewJSONLogger(os.Stdout, cfg.LogLevel).With("service", "finmatch-backend", "env", cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx := context.Background()
	for _, w := range cfg.Warnings() {
		log.Warn(ctx, w)
	}

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ping at boot; the API still starts and /api/health reports the outage
	{
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnTimeout)
		if err := pool.Ping(pingCtx); err != nil {
			log.Error(ctx, "database unreachable at boot", "error", err)
		}
		cancel()
	}

	if cfg.Migrations.AutoMigrate {
		if err := autoMigrate(ctx, pool, cfg.Migrations, log); err != nil {
			return err
		}
	}

	// --- Services ---
	userStore := store.NewPostgresStore(pool,
		store.WithHashCost(cfg.BcryptCost),
		store.WithTimeout(cfg.Database.AcquireTimeout),
	)

	transport := email.NewTransport(cfg.Email)
	dispatcher, err := email.NewDispatcher(transport, cfg.Email.FromEmail, cfg.Email.FromName, log)
	if err != nil {
		return err
	}
	log.Info(ctx, "mail transport ready", "transport", transport.Name())

	signupSvc := signup.NewService(validation.New(), userStore, dispatcher, cfg.Email.AdminEmail, log)

	// --- HTTP Handlers ---
	h := routes.Handlers{
		Health:  handlers.NewHealthHandler(pool),
		Signup:  handlers.NewSignupHandler(signupSvc),
		Auth:    handlers.NewAuthHandler(userStore, &cfg.JWT, log),
		Profile: handlers.NewProfileHandler(userStore),
	}

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.NewRouter(h, cfg, log),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// wait for SIGINT/SIGTERM, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

func autoMigrate(ctx context.Context, pool *pgxpool.Pool, cfg config.MigrationsConfig, log logging.Logger) error {
	// shares the pool; closing it is left to the pool owner
	db := stdlib.OpenDBFromPool(pool)

	var files fs.FS = migrations.FS
	if cfg.Dir != "" {
		files = os.DirFS(cfg.Dir)
	}

	applied, err := migrate.NewRunner(db, files, log).Up(ctx)
	if err != nil {
		return err
	}
	log.Info(ctx, "migrations applied", "count", len(applied))
	return nil
}
