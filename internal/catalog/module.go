// Package catalog provides the plan and extra-services catalog module.
// Plans are read-only reference data; extra services come from a static
// YAML catalog loaded at startup.
package catalog

import (
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/catalog/handler"
	"crm_portal_backend/internal/catalog/repository"
	"crm_portal_backend/internal/catalog/service"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.CatalogConfig, log *logger.Logger) (*Module, error) {
	extras, err := service.LoadExtraCatalog(cfg.GetExtraServicesPath())
	if err != nil {
		return nil, err
	}
	log.Info("extra services catalog loaded", "count", len(extras))

	repo := repository.New(pool)
	svc := service.New(repo, extras, log)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the catalog service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// ExtraCatalog returns the loaded extra-services catalog.
func (m *Module) ExtraCatalog() domain.ExtraCatalog {
	return m.service.ExtraCatalog()
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/plans", m.handler.ListPlans)
	ctx.Protected.GET("/extra-services", m.handler.ListExtras)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
