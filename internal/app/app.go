// Package app wires the register's modules together for the API server
// and the operator CLI.
package app

import (
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/config"
	"github.com/georgemunganga/printa-pos/internal/logging"
	"github.com/georgemunganga/printa-pos/internal/modules/analytics"
	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/pos"
	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

// App holds the long-lived services.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Catalog   *catalog.Catalog
	State     storage.Repository
	POS       pos.Service
	Analytics *analytics.Engine
	Auth      auth.Service
}

// New loads the catalog, opens the state repository and builds every service.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	products, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	state, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	log.Info("register ready",
		zap.String("catalog", cfg.CatalogPath),
		zap.Int("products", products.Len()),
		zap.String("storage", cfg.Storage.Driver))

	return &App{
		Config:  cfg,
		Log:     log,
		Catalog: products,
		State:   state,
		POS:     pos.NewService(products, state, log.Named("pos")),
		Analytics: analytics.NewEngine(analytics.Config{
			Location:        cfg.Location,
			DisplayLocation: cfg.DisplayLocation,
		}),
		Auth: auth.NewService(auth.Config{
			Secret:       cfg.JWTSecret,
			Operator:     cfg.OperatorName,
			PasswordHash: cfg.OperatorPasswordHash,
		}),
	}, nil
}

// Router builds the HTTP API.
func (a *App) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.Middleware(a.Log.Named("http")))
	router.Use(middleware.Recoverer)

	authHandler := auth.NewHandler(a.Auth)
	authHandler.RegisterRoutes(router)

	pos.NewHandler(a.POS, authHandler.Middleware).RegisterRoutes(router)
	analytics.NewHandler(a.Analytics, a.POS, a.Catalog).RegisterRoutes(router)
	return router
}

func (a *App) Close() error {
	return a.State.Close()
}
