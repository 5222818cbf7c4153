// Package server initializes and runs the delivery platform server.
// It wires configuration, the database, object storage and the domain
// services into the HTTP surface and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lumeshot/lumeshot/internal/logging"
	"github.com/lumeshot/lumeshot/internal/server/admins"
	"github.com/lumeshot/lumeshot/internal/server/clients"
	"github.com/lumeshot/lumeshot/internal/server/config"
	"github.com/lumeshot/lumeshot/internal/server/gallery"
	"github.com/lumeshot/lumeshot/internal/server/httpapi"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/repomanager"
	"github.com/lumeshot/lumeshot/internal/server/storage"
	"github.com/lumeshot/lumeshot/internal/server/upload"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := storage.NewS3Storage(cfg)

	svc := httpapi.Services{
		Admins:     admins.NewService(repos.Admins(db), cfg),
		Clients:    clients.NewService(repos.Clients(db), repos.Access(db), cfg),
		Projects:   projects.NewService(repos.Projects(db)),
		Upload:     upload.NewService(db, repos, store, cfg, logger),
		Reconciler: upload.NewReconciler(db, repos, store, logger),
		Gallery:    gallery.NewService(db, repos, store, logger, cfg.UploadURLExpiry),
	}

	srv := httpapi.NewServer(cfg, svc, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
