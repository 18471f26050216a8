package handler

import (
	"github.com/gin-gonic/gin"

	"crm_portal_backend/internal/auth/service"
	"crm_portal_backend/internal/auth/transport"
	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/validator"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", err.Error())
		return false
	}
	return true
}

// Login verifies credentials and returns an access token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		httpkit.Error(c, 401, "authentication required", nil)
		return
	}

	result, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ChangePassword rotates the authenticated user's password.
// POST /api/v1/auth/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		httpkit.Error(c, 401, "authentication required", nil)
		return
	}

	var req transport.ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ChangePassword(c.Request.Context(), identity.UserID(), req)) {
		return
	}
	c.Status(204)
}
