// Package companies exposes read access to converted customers. Companies
// and their users are created only by the lead conversion transaction.
package companies

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/companies/handler"
	"crm_portal_backend/internal/companies/repository"
	"crm_portal_backend/internal/companies/service"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/logger"
)

// Module is the companies bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the companies module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "companies"
}

// RegisterRoutes mounts company routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/companies", m.handler.List)
	ctx.Admin.GET("/companies/:id", m.handler.Get)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
