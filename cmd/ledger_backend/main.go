package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/mobilebank/ledger_backend/internal/core/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/handlers"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/mobilebank/ledger_backend/internal/platform/config"
	memrepo "github.com/mobilebank/ledger_backend/internal/repositories/database/memory"
	"github.com/mobilebank/ledger_backend/internal/repositories/database/pgsql"
	"github.com/mobilebank/ledger_backend/pkg/database"

	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Mobile Banking Ledger API
// @version 1.0
// @description Account balances with an append-only transaction log.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterCustomValidations(); err != nil {
		logger.Error("Failed to register custom validations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the storage backend: Postgres when PGSQL_URL is
// configured, the in-memory store otherwise. The returned cleanup releases
// whatever the backend holds open.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, using in-memory store; state will not survive restarts")
		return memrepo.NewRepositoryProvider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), dbPool.Close, nil
}

// runMigrations applies all pending "up" migrations from the migrations
// directory, using a temporary database/sql connection via the pgx stdlib
// driver to stay compatible with the main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
