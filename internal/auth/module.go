// Package auth provides authentication for portal staff and company users.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/auth/handler"
	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/internal/auth/service"
	"crm_portal_backend/internal/auth/token"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"
)

// Staff roles. Company roles are assigned by lead conversion.
const (
	RoleAdmin = "ADMIN"
	RoleCRM   = "CRM"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, token.NewIssuer(cfg), log)
	return &Module{handler: handler.New(svc, validate)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context. Login is
// public but rate limited per IP; profile routes require authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	ctx.Protected.GET("/auth/me", m.handler.Me)
	ctx.Protected.POST("/auth/change-password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
