// Package service implements the lead pipeline business logic: lifecycle,
// verification, contact roster, precontract pricing, and conversion.
package service

import (
	"context"

	"github.com/google/uuid"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/phone"
)

// PlanCatalog is the narrow read surface of the catalog module the lead
// pipeline depends on.
type PlanCatalog interface {
	GetPlan(ctx context.Context, id uuid.UUID) (domain.Plan, error)
	ExtraCatalog() domain.ExtraCatalog
}

// Service orchestrates lead operations.
type Service struct {
	repo     repository.Repository
	catalog  PlanCatalog
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, catalog PlanCatalog, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, eventBus: eventBus, log: log}
}

// Create registers a new lead in the NEW status.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		Sector:      req.Sector,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.toResponse(ctx, lead), nil
}

// Get loads a single lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.toResponse(ctx, lead), nil
}

// List returns a filtered page of leads.
func (s *Service) List(ctx context.Context, status, search string, limit, offset int) (transport.LeadListResponse, error) {
	params := repository.ListParams{Search: search, Limit: limit, Offset: offset}
	if status != "" {
		st := domain.Status(status)
		if !domain.IsKnownStatus(st) {
			return transport.LeadListResponse{}, apperr.Validation("unknown lead status: " + status)
		}
		params.Status = &st
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	out := make([]transport.LeadResponse, len(leads))
	for i, l := range leads {
		out[i] = s.toResponse(ctx, l)
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	return transport.LeadListResponse{Data: out, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Update applies a partial update to a lead. Status is special-cased: the
// only transition this endpoint accepts is to LOST; every other transition
// has a dedicated action. Touching any verification field on a NEW lead
// advances it to QUALIFYING.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.Status != nil {
		if domain.Status(*req.Status) != domain.StatusLost {
			return transport.LeadResponse{}, apperr.Validation("status can only be set to LOST; use the dedicated actions for other transitions")
		}
		if err := s.repo.UpdateStatus(ctx, id, lead.Status, domain.StatusLost); err != nil {
			return transport.LeadResponse{}, err
		}
		s.log.LeadTransition(id.String(), string(lead.Status), string(domain.StatusLost))
		lead.Status = domain.StatusLost
	}

	if lead.Status.IsTerminal() && touchesFields(req) {
		return transport.LeadResponse{}, apperr.Conflict("cannot modify a " + string(lead.Status) + " lead")
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}
	if req.PlanID != nil {
		if _, err := s.catalog.GetPlan(ctx, *req.PlanID); err != nil {
			return transport.LeadResponse{}, apperr.Validation("unknown plan: " + req.PlanID.String())
		}
	}

	params := repository.UpdateLeadParams{
		ID:                id,
		CompanyName:       req.CompanyName,
		TaxID:             req.TaxID,
		Sector:            req.Sector,
		Address:           req.Address,
		City:              req.City,
		PostalCode:        req.PostalCode,
		Email:             req.Email,
		Phone:             req.Phone,
		EmpresaVerificada: req.EmpresaVerificada,
		ContacteVerificat: req.ContacteVerificat,
		CIFValidat:        req.CIFValidat,
		ContacteRealitzat: req.ContacteRealitzat,
		PlanID:            req.PlanID,
		CRMNotes:          req.CRMNotes,
	}
	if req.Extras != nil {
		params.Extras = dedupeExtras(*req.Extras)
		params.ExtrasSet = true
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if lead.Status == domain.StatusNew && touchesVerification(req) {
		if err := s.repo.UpdateStatus(ctx, id, domain.StatusNew, domain.StatusQualifying); err == nil {
			s.log.LeadTransition(id.String(), string(domain.StatusNew), string(domain.StatusQualifying))
			updated.Status = domain.StatusQualifying
		}
	}

	return s.toResponse(ctx, updated), nil
}

// Delete removes a lead and its roster.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Readiness evaluates the verification gate for a lead without side effects.
func (s *Service) Readiness(ctx context.Context, id uuid.UUID) (transport.ReadinessResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReadinessResponse{}, err
	}
	contacts, err := s.repo.ListContacts(ctx, id)
	if err != nil {
		return transport.ReadinessResponse{}, err
	}

	r := domain.ComputeReadiness(domain.LeadFacts{
		CompanyName:  lead.CompanyName,
		TaxID:        lead.TaxID,
		Email:        lead.Email,
		ContactCount: len(contacts),
		Verification: lead.Verification(),
	})
	return transport.ReadinessResponse{
		ReadyForAdminHandoff: r.ReadyForAdminHandoff,
		ReadyForConversion:   r.ReadyForConversion,
		MissingFields:        r.MissingFields,
	}, nil
}

// planFor resolves the lead's selected plan, tolerating a missing selection.
func (s *Service) planFor(ctx context.Context, planID *uuid.UUID) *domain.Plan {
	if planID == nil {
		return nil
	}
	plan, err := s.catalog.GetPlan(ctx, *planID)
	if err != nil {
		return nil
	}
	return &plan
}

func (s *Service) toResponse(ctx context.Context, lead repository.Lead) transport.LeadResponse {
	plan := s.planFor(ctx, lead.PlanID)
	breakdown := domain.Price(plan, lead.Extras, s.catalog.ExtraCatalog())
	budget := domain.BudgetStateFor(len(lead.Extras), lead.BudgetApproval())

	extras := lead.Extras
	if extras == nil {
		extras = []string{}
	}
	notes := ""
	if lead.CRMNotes != nil {
		notes = *lead.CRMNotes
	}

	return transport.LeadResponse{
		ID:          lead.ID,
		CompanyName: lead.CompanyName,
		TaxID:       lead.TaxID,
		Sector:      lead.Sector,
		Address:     lead.Address,
		City:        lead.City,
		PostalCode:  lead.PostalCode,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Status:      string(lead.Status),
		Verification: transport.VerificationResponse{
			EmpresaVerificada: lead.EmpresaVerificada,
			ContacteVerificat: lead.ContacteVerificat,
			CIFValidat:        lead.CIFValidat,
			ContacteRealitzat: lead.ContacteRealitzat,
			PlanID:            lead.PlanID,
			Extras:            extras,
			Notes:             notes,
		},
		Price: transport.PriceResponse{
			Base:        breakdown.BaseCents,
			ExtrasTotal: breakdown.ExtrasCents,
			Total:       breakdown.TotalCents,
		},
		BudgetState:  string(budget),
		BudgetSentAt: lead.BudgetSentAt,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}

func touchesVerification(req transport.UpdateLeadRequest) bool {
	return req.EmpresaVerificada != nil || req.ContacteVerificat != nil ||
		req.CIFValidat != nil || req.ContacteRealitzat != nil ||
		req.PlanID != nil || req.Extras != nil
}

func touchesFields(req transport.UpdateLeadRequest) bool {
	return req.CompanyName != nil || req.TaxID != nil || req.Sector != nil ||
		req.Address != nil || req.City != nil || req.PostalCode != nil ||
		req.Email != nil || req.Phone != nil || req.CRMNotes != nil ||
		touchesVerification(req)
}

func dedupeExtras(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
