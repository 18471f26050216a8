package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/apperr"
)

// resolveQuote validates a plan + extras selection against the catalogs and
// recomputes the price server-side. The client's preuTotal is advisory only.
func (s *Service) resolveQuote(ctx context.Context, planID uuid.UUID, extraIDs []string, clientTotal *int64) (domain.Plan, []string, domain.PriceBreakdown, error) {
	plan, err := s.catalog.GetPlan(ctx, planID)
	if err != nil {
		return domain.Plan{}, nil, domain.PriceBreakdown{}, apperr.Validation("unknown plan: " + planID.String())
	}

	catalog := s.catalog.ExtraCatalog()
	extras := dedupeExtras(extraIDs)
	for _, id := range extras {
		if _, ok := catalog[id]; !ok {
			return domain.Plan{}, nil, domain.PriceBreakdown{}, apperr.Validation("unknown extra service: " + id)
		}
	}

	breakdown := domain.Price(&plan, extras, catalog)
	if clientTotal != nil && *clientTotal != breakdown.TotalCents {
		s.log.Warn("client price mismatch, using recomputed total",
			"client_total", *clientTotal,
			"computed_total", breakdown.TotalCents,
		)
	}
	return plan, extras, breakdown, nil
}

// SendBudget snapshots the precontract selection, moves the budget approval
// to SENT, and queues the quote email. Persisting the snapshot and the email
// intent is one atomic write.
func (s *Service) SendBudget(ctx context.Context, leadID uuid.UUID, req transport.SendBudgetRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	plan, extras, breakdown, err := s.resolveQuote(ctx, req.PlanID, req.Extres, req.PreuTotal)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	catalog := s.catalog.ExtraCatalog()
	extraNames := make([]string, len(extras))
	for i, id := range extras {
		extraNames[i] = catalog[id].Name
	}
	notes := ""
	if req.NotesPrecontracte != nil {
		notes = *req.NotesPrecontracte
	}

	updated, err := s.repo.MarkBudgetSent(ctx, repository.MarkBudgetSentParams{
		LeadID:           leadID,
		PlanID:           plan.ID,
		Extras:           extras,
		PrecontractNotes: req.NotesPrecontracte,
		Recipient:        req.EmailDestinari,
		Outbox: []outbox.InsertParams{{
			Kind:     outbox.KindEmail,
			Template: outbox.TemplatePressupost,
			Payload: outbox.PressupostPayload{
				To:          req.EmailDestinari,
				CompanyName: lead.CompanyName,
				PlanName:    plan.Name,
				ExtraNames:  extraNames,
				TotalCents:  breakdown.TotalCents,
				Notes:       notes,
			},
			RunAt: time.Now().UTC(),
		}},
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.BudgetSent{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		Recipient:  req.EmailDestinari,
		TotalCents: breakdown.TotalCents,
	})
	s.log.Info("budget sent", "lead_id", leadID.String(), "recipient", req.EmailDestinari, "total_cents", breakdown.TotalCents)

	return s.toResponse(ctx, updated), nil
}

// Handoff persists the submitted verification snapshot and transitions the
// lead to PENDING_ADMIN. The handoff gate requires all verification checks
// plus a selected plan; unmet requirements are returned in order.
func (s *Service) Handoff(ctx context.Context, leadID uuid.UUID, req transport.HandoffRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.CRMData.PlanID != nil {
		if _, err := s.catalog.GetPlan(ctx, *req.CRMData.PlanID); err != nil {
			return transport.LeadResponse{}, apperr.Validation("unknown plan: " + req.CRMData.PlanID.String())
		}
	}

	params := repository.UpdateLeadParams{
		ID:                leadID,
		EmpresaVerificada: &req.CRMData.EmpresaVerificada,
		ContacteVerificat: &req.CRMData.ContacteVerificat,
		CIFValidat:        &req.CRMData.CIFValidat,
		ContacteRealitzat: &req.CRMData.ContacteRealitzat,
		Extras:            dedupeExtras(req.CRMData.Extras),
		ExtrasSet:         true,
		CRMNotes:          req.CRMData.Notes,
	}
	if req.CRMData.PlanID != nil {
		params.PlanID = req.CRMData.PlanID
	} else {
		params.ClearPlan = true
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	readiness := domain.ComputeReadiness(domain.LeadFacts{
		CompanyName:  updated.CompanyName,
		TaxID:        updated.TaxID,
		Email:        updated.Email,
		Verification: updated.Verification(),
		// Handoff does not gate on contacts; satisfy the facts with the
		// roster so MissingFields stays accurate for the response.
		ContactCount: s.contactCount(ctx, leadID),
	})
	if !readiness.ReadyForAdminHandoff {
		return transport.LeadResponse{}, apperr.Precondition("el lead no està llest per passar a administració").
			WithDetails(map[string]any{"missingFields": readiness.MissingFields})
	}

	if err := s.repo.UpdateStatus(ctx, leadID, updated.Status, domain.StatusPendingAdmin); err != nil {
		return transport.LeadResponse{}, err
	}
	s.log.LeadTransition(leadID.String(), string(lead.Status), string(domain.StatusPendingAdmin))
	updated.Status = domain.StatusPendingAdmin

	return s.toResponse(ctx, updated), nil
}

func (s *Service) contactCount(ctx context.Context, leadID uuid.UUID) int {
	contacts, err := s.repo.ListContacts(ctx, leadID)
	if err != nil {
		return 0
	}
	return len(contacts)
}
