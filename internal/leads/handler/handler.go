// Package handler exposes the leads HTTP API.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/validator"
)

// Handler handles HTTP requests for the lead pipeline.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, 400, "invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
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

// Create registers a new lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get retrieves a single lead.
// GET /api/v1/leads/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves a filtered page of leads.
// GET /api/v1/leads?status=&search=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	result, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("search"), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies a partial update, including marking a lead LOST.
// PATCH /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a lead.
// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(204)
}

// Readiness reports the verification gate outcome.
// GET /api/v1/leads/:id/readiness
func (h *Handler) Readiness(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Readiness(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListContacts returns the lead's contact roster.
// GET /api/v1/leads/:id/contacts
func (h *Handler) ListContacts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ListContacts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddContact adds a contact to the roster.
// POST /api/v1/leads/:id/contacts
func (h *Handler) AddContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.ContactRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.AddContact(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// RemoveContact removes a contact from the roster.
// DELETE /api/v1/leads/:id/contacts/:contactId
func (h *Handler) RemoveContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveContact(c.Request.Context(), id, contactID)) {
		return
	}
	c.Status(204)
}

// SetPrimaryContact promotes a contact to primary.
// PUT /api/v1/leads/:id/contacts/:contactId/primary
func (h *Handler) SetPrimaryContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.SetPrimaryContact(c.Request.Context(), id, contactID)) {
		return
	}
	c.Status(204)
}

// SendBudget snapshots the precontract and dispatches the quote email.
// POST /api/v1/leads/:id/enviar-pressupost
func (h *Handler) SendBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.SendBudgetRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.SendBudget(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Handoff transitions the lead to PENDING_ADMIN.
// POST /api/v1/leads/:id/passar-admin
func (h *Handler) Handoff(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.HandoffRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Handoff(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Convert promotes the lead to a company with its initial users.
// POST /api/v1/leads/:id/convertir-empresa
func (h *Handler) Convert(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.ConvertRequest
	if !h.bind(c, &req) {
		return
	}

	actor := httpkit.GetIdentity(c)
	result, err := h.svc.Convert(c.Request.Context(), id, actor.Email(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
