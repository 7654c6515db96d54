// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/internal/infrastructure"
	"github.com/JaimeStill/gostcat/pkg/middleware"
	"github.com/JaimeStill/gostcat/pkg/module"
	"github.com/JaimeStill/gostcat/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	serveSpec, err := openapi.Handler(buildSpec(cfg))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)
	mux.HandleFunc("GET "+cfg.API.OpenAPI.Path, serveSpec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger, runtime.Metrics.ObserveRequest))

	return m, nil
}
