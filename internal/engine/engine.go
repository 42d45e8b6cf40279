package engine

import (
	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/config"
	"github.com/skyeops/atlas/internal/display"
	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// Engine drives listing, progressive loading, search and forms for
// every configured section. It holds no per-table code; the schema
// registry and page configuration describe everything.
type Engine struct {
	store    *store.Store
	registry *schema.Registry
	pages    *pageconfig.Registry
	resolver *display.Resolver
	logger   *zap.Logger
	cfg      config.SectionsConfig
}

func New(st *store.Store, registry *schema.Registry, pages *pageconfig.Registry, resolver *display.Resolver, cfg config.SectionsConfig, logger *zap.Logger) *Engine {
	return &Engine{
		store:    st,
		registry: registry,
		pages:    pages,
		resolver: resolver,
		logger:   logger,
		cfg:      cfg,
	}
}

// Pages exposes the page registry to the HTTP layer.
func (e *Engine) Pages() *pageconfig.Registry {
	return e.pages
}

// Resolver exposes the display resolver, used by the admin cache flush.
func (e *Engine) Resolver() *display.Resolver {
	return e.resolver
}
