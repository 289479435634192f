package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/famsync/famsync-api/internal/api"
	"github.com/famsync/famsync-api/internal/config"
	"github.com/famsync/famsync-api/internal/platform/logger"
	"github.com/famsync/famsync-api/internal/platform/postgres"
	"github.com/famsync/famsync-api/internal/service"
	"github.com/famsync/famsync-api/internal/service/auth"
)

// application bundles everything the server needs at runtime.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB

	authHandler   *api.AuthHandler
	userHandler   *api.UserHandler
	familyHandler *api.FamilyHandler
	taskHandler   *api.TaskHandler
	tagHandler    *api.TagHandler
	adminHandler  *api.AdminHandler

	sessions *auth.SessionService
	routines *service.RoutineService
	jwt      auth.JWTService
}

// run loads config, wires the application, and serves until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.Setup(logger.Options{Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := runMigrations(db, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	app := newApplication(cfg, log, db)
	app.startupSweep(context.Background())

	return app.serve()
}

// newApplication wires stores, services, and handlers.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) *application {
	users := postgres.NewPostgresUserStore(db, log)
	families := postgres.NewPostgresFamilyStore(db, log)
	tasks := postgres.NewPostgresTaskStore(db, log)
	tags := postgres.NewPostgresTagStore(db, log)
	tokens := postgres.NewPostgresRefreshTokenStore(db, log)

	passwords := auth.NewBcryptPasswordService(cfg.Auth.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenLifetimeMinutes)*time.Minute)
	sessions := auth.NewSessionService(db, users, tokens, jwtService, passwords, passwords,
		time.Duration(cfg.Auth.RefreshTokenLifetimeDays)*24*time.Hour, log)

	familyService := service.NewFamilyService(db, families, users, tags, log)
	taskService := service.NewTaskService(db, tasks, tags, familyService, log)
	routineService := service.NewRoutineService(tasks, log)

	validate := validator.New()

	return &application{
		cfg:           cfg,
		logger:        log,
		db:            db,
		authHandler:   api.NewAuthHandler(sessions, users, validate, cfg.Server.CookieSecure),
		userHandler:   api.NewUserHandler(users, passwords, validate),
		familyHandler: api.NewFamilyHandler(familyService, validate),
		taskHandler:   api.NewTaskHandler(taskService, validate),
		tagHandler:    api.NewTagHandler(taskService, validate),
		adminHandler:  api.NewAdminHandler(routineService),
		sessions:      sessions,
		routines:      routineService,
		jwt:           jwtService,
	}
}

// startupSweep resets routine tasks and purges expired refresh tokens.
// Best effort: a failure is logged, not fatal, since the admin endpoint can
// redo the reset at any time.
func (app *application) startupSweep(ctx context.Context) {
	if n, err := app.routines.ResetCompletedRoutineTasks(ctx); err != nil {
		app.logger.Error("startup routine reset failed", "error", err)
	} else {
		app.logger.Info("startup routine reset done", "count", n)
	}

	if n, err := app.sessions.PurgeExpiredTokens(ctx); err != nil {
		app.logger.Error("refresh token purge failed", "error", err)
	} else if n > 0 {
		app.logger.Info("purged expired refresh tokens", "count", n)
	}
}
