// Package server initializes and runs the StudyHub dev server. It wires the
// repository backend, seeds the bootstrap admin, and runs the HTTP API with
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/studyhub/studyhub/internal/logging"
	"github.com/studyhub/studyhub/internal/server/config"
	"github.com/studyhub/studyhub/internal/server/httpapi"
	"github.com/studyhub/studyhub/internal/server/migrations"
	"github.com/studyhub/studyhub/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	db          *sql.DB
}

// NewApp wires the application. An empty DatabaseDSN selects the in-memory
// repository; otherwise the PostgreSQL one is used and migrations are run.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var repo users.Repository
	var dbConn *sql.DB

	if c.DatabaseDSN != "" {
		db, err := sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if err := runMigrations(context.Background(), db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		repo = users.NewPostgresRepository(db)
		dbConn = db
	} else {
		repo = users.NewMemoryRepository()
	}

	svc := users.NewService(repo, logger, users.Options{
		DefaultInviteQuota: c.DefaultInviteQuota,
		RegisterPoints:     c.RegisterPoints,
	})

	return &App{config: c, logger: logger, userService: svc, db: dbConn}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	// Without an admin account no invite code exists and nobody can register.
	admin, err := app.userService.EnsureBootstrapAdmin(ctx,
		app.config.BootstrapInviteCode, app.config.BootstrapAdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap error: %w", err)
	}
	if admin != nil {
		app.logger.Info(ctx, "seeded bootstrap admin",
			"username", admin.Username, "invite_code", admin.InviteCode)
	}

	api := httpapi.NewServer(app.userService, app.logger,
		[]byte(app.config.SecretKey), app.config.AccessTokenValidity)

	srv := &http.Server{Addr: app.config.Addr, Handler: api.Handler()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close error", "error", err)
		}
	}
	return nil
}
