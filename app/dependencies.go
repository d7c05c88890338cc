// Package app is the central wiring point for dependency injection: it
// builds the stores, repositories, services, and handlers the router needs.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/auth"
	"github.com/dookan/catalog-backend/config"
	"github.com/dookan/catalog-backend/handlers"
	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/repositories/mongodb"
	"github.com/dookan/catalog-backend/repositories/postgres"
	"github.com/dookan/catalog-backend/services/analytics"
	"github.com/dookan/catalog-backend/services/audit"
	syncsvc "github.com/dookan/catalog-backend/services/sync"
	"github.com/dookan/catalog-backend/shopify"
	"github.com/dookan/catalog-backend/validation"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	// Infrastructure
	Config   *config.Config
	Mongo    *mongodb.DB
	Postgres *postgres.DB
	Logger   *zap.Logger

	// Repositories
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	Events   repositories.AuditRepository

	// Remote commerce platform
	Gateway *shopify.Gateway

	// Services
	Recorder  *audit.Recorder
	Sync      *syncsvc.Service
	Audit     *audit.Service
	Analytics *analytics.Service

	// Auth
	Tokens         *auth.TokenManager
	AuthService    *auth.Service
	AuthHandler    *auth.Handler
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	ProductHandler   *handlers.ProductHandler
	EventHandler     *handlers.EventHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	HealthHandler    *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStores(ctx, cfg); err != nil {
		return nil, err
	}
	deps.initServices(cfg)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initStores connects both databases, applies the audit schema, and ensures
// the MongoDB indexes.
func (d *Dependencies) initStores(ctx context.Context, cfg *config.Config) error {
	mongo, err := mongodb.NewDB(ctx, cfg.Mongo, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	d.Mongo = mongo

	pg, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	d.Postgres = pg

	if err := pg.InitSchema(ctx); err != nil {
		return err
	}

	products := mongodb.NewProductRepository(mongo, d.Logger)
	if err := products.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure product indexes: %w", err)
	}
	users := mongodb.NewUserRepository(mongo, d.Logger)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}

	d.Products = products
	d.Users = users
	d.Events = postgres.NewAuditRepository(pg, d.Logger)

	return nil
}

// initServices builds the gateway, services, auth, and handlers
func (d *Dependencies) initServices(cfg *config.Config) {
	client := shopify.NewClient(cfg.Shopify, d.Logger)
	d.Gateway = shopify.NewGateway(client, d.Logger)

	d.Recorder = audit.NewRecorder(d.Events, d.Logger, audit.DefaultRecorderConfig())

	validator := validation.New(cfg.Catalog.AllowedImageHosts)
	d.Sync = syncsvc.NewService(d.Products, d.Gateway, d.Recorder, validator, d.Logger)
	d.Audit = audit.NewService(d.Events, d.Logger)
	d.Analytics = analytics.NewService(d.Events, d.Gateway, d.Logger)

	d.Tokens = auth.NewTokenManager(cfg.JWT)
	d.AuthService = auth.NewService(d.Users, d.Tokens, d.Logger)
	d.AuthHandler = auth.NewHandler(d.AuthService, d.Tokens, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, d.Logger)

	d.ProductHandler = handlers.NewProductHandler(d.Sync, d.Logger)
	d.EventHandler = handlers.NewEventHandler(d.Audit, cfg.Catalog.RetentionDays, d.Logger)
	d.AnalyticsHandler = handlers.NewAnalyticsHandler(d.Analytics, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Mongo, d.Postgres, d.Logger)
}

// Start launches the background workers
func (d *Dependencies) Start() error {
	return d.Recorder.Start()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Recorder != nil {
		if err := d.Recorder.Stop(10 * time.Second); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit recorder: %w", err))
		}
	}

	if d.Postgres != nil {
		if err := d.Postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close postgres: %w", err))
		}
	}

	if d.Mongo != nil {
		if err := d.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mongodb: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
