// Package app contains the application setup for the products API.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mretail/products-api/internal/cache"
	"github.com/mretail/products-api/internal/config"
	"github.com/mretail/products-api/internal/platform/server"
	"github.com/mretail/products-api/internal/service"
	"github.com/mretail/products-api/internal/store"
	"github.com/mretail/products-api/internal/transport/rest"
	"github.com/mretail/products-api/internal/upstream"
)

type Dependencies struct {
	ProductService service.ProductService
	Authorizer     rest.Authorizer
	Logger         *slog.Logger
}

// SetupDependencies wires the orchestrator and its collaborators. The
// store is injected so tests and local runs can swap the database for the
// in-memory implementation.
func SetupDependencies(productStore store.ProductStore, cfg *config.Config, logger *slog.Logger) *Dependencies {
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}
	resolver := upstream.NewHTTPResolver(httpClient, cfg.Upstream.Endpoint)
	productCache := cache.NewProductCache(cfg.Cache.Capacity)
	pService := service.NewService(productStore, resolver, productCache, logger)

	return &Dependencies{
		ProductService: pService,
		Authorizer:     rest.NewStaticAuthorizer(cfg.Auth.Username, cfg.Auth.Password),
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the router and routes for the products API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the products API.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Authorizer, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the products API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
