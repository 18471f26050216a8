package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_portal_backend/internal/companies/service"
	"crm_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for converted companies.
type Handler struct {
	svc *service.Service
}

// New creates a new companies handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List retrieves a filtered page of companies.
// GET /api/v1/admin/companies
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.svc.List(c.Request.Context(), c.Query("search"), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a company with its user accounts.
// GET /api/v1/admin/companies/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid id", nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
