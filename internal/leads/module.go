// Package leads provides the lead pipeline module: lifecycle, verification,
// contact roster, precontract quotes, and conversion to companies.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/events"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/leads/handler"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	outboxRepo *outbox.Repository,
	catalog service.PlanCatalog,
	eventBus events.Bus,
	validate *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.NewPostgresRepository(pool, outboxRepo)
	svc := service.New(repo, catalog, eventBus, log)
	h := handler.New(svc, validate)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
// Pipeline operations are CRM-facing; conversion is admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	{
		leads.POST("", m.handler.Create)
		leads.GET("", m.handler.List)
		leads.GET("/:id", m.handler.Get)
		leads.PATCH("/:id", m.handler.Update)
		leads.DELETE("/:id", m.handler.Delete)
		leads.GET("/:id/readiness", m.handler.Readiness)

		leads.GET("/:id/contacts", m.handler.ListContacts)
		leads.POST("/:id/contacts", m.handler.AddContact)
		leads.DELETE("/:id/contacts/:contactId", m.handler.RemoveContact)
		leads.PUT("/:id/contacts/:contactId/primary", m.handler.SetPrimaryContact)

		leads.POST("/:id/enviar-pressupost", m.handler.SendBudget)
		leads.POST("/:id/passar-admin", m.handler.Handoff)
	}

	ctx.Admin.POST("/leads/:id/convertir-empresa", m.handler.Convert)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
