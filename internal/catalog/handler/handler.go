package handler

import (
	"github.com/gin-gonic/gin"

	"crm_portal_backend/internal/catalog/service"
	"crm_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for the plan and extra-services catalogs.
type Handler struct {
	svc *service.Service
}

// New creates a new catalog handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListPlans retrieves the plan catalog.
// GET /api/v1/plans
func (h *Handler) ListPlans(c *gin.Context) {
	result, err := h.svc.ListPlans(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListExtras retrieves the extra-services catalog.
// GET /api/v1/extra-services
func (h *Handler) ListExtras(c *gin.Context) {
	httpkit.OK(c, h.svc.ListExtras())
}
