package api

import (
	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/internal/infrastructure"
	"github.com/JaimeStill/gostcat/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	ImageBase     string
	MaxUploadSize int64
	Reference     config.ReferenceConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		ImageBase:      cfg.API.ImageBase(),
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		Reference:      cfg.Reference,
	}
}
