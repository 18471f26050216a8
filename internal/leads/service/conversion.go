package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/apperr"
)

// Convert promotes a lead to a company with its initial user accounts.
// Preconditions: the verification gate passes and the budget approval is not
// pending. Company creation, user creation, the WON transition, and the
// notification intents commit or roll back together; a failure anywhere
// leaves no partial state.
//
// actorEmail identifies the authenticated CRM actor to notify on success.
func (s *Service) Convert(ctx context.Context, leadID uuid.UUID, actorEmail string, req transport.ConvertRequest) (transport.ConvertResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.ConvertResponse{}, err
	}
	contacts, err := s.repo.ListContacts(ctx, leadID)
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	readiness := domain.ComputeReadiness(domain.LeadFacts{
		CompanyName:  lead.CompanyName,
		TaxID:        lead.TaxID,
		Email:        lead.Email,
		ContactCount: len(contacts),
		Verification: lead.Verification(),
	})
	if !readiness.ReadyForConversion {
		return transport.ConvertResponse{}, apperr.Precondition(
			"no es pot convertir el lead, falta: "+strings.Join(readiness.MissingFields, ", ")).
			WithDetails(map[string]any{"missingFields": readiness.MissingFields})
	}

	budget := domain.BudgetStateFor(len(lead.Extras), lead.BudgetApproval())
	if budget.BlocksConversion() {
		return transport.ConvertResponse{}, apperr.Precondition("el pressupost amb extres encara no s'ha enviat")
	}

	plan, extras, breakdown, err := s.resolveQuote(ctx, req.Contract.PlanID, req.Contract.Extres, req.Contract.PreuTotal)
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	company := companyFromLead(lead, req.Company)
	users, primary, password, err := buildUsers(company.Name, contacts)
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	now := time.Now().UTC()
	var records []outbox.InsertParams
	if req.SendCredentials {
		records = append(records, outbox.InsertParams{
			Kind:     outbox.KindEmail,
			Template: outbox.TemplateCredentials,
			Payload: outbox.CredentialsPayload{
				To:          primary.Email,
				CompanyName: company.Name,
				Username:    primary.Email,
				Password:    password,
			},
			RunAt: now,
		})
	}
	if req.NotifyCRM && actorEmail != "" {
		records = append(records, outbox.InsertParams{
			Kind:     outbox.KindEmail,
			Template: outbox.TemplateConversio,
			Payload: outbox.ConversioPayload{
				To:           actorEmail,
				CompanyName:  company.Name,
				UsersCreated: len(users),
			},
			RunAt: now,
		})
	}

	result, err := s.repo.ConvertToCompany(ctx, repository.ConvertParams{
		LeadID:        leadID,
		Company:       company,
		PlanID:        plan.ID,
		Extras:        extras,
		TotalCents:    breakdown.TotalCents,
		ContractStart: req.Contract.DataInici,
		ContractNotes: req.Contract.Notes,
		Users:         users,
		Outbox:        records,
	})
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadConverted{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       leadID,
		CompanyID:    result.CompanyID,
		UsersCreated: len(result.UserIDs),
	})
	s.log.LeadTransition(leadID.String(), string(lead.Status), string(domain.StatusWon))
	s.log.ConversionEvent(leadID.String(), result.CompanyID.String(), len(result.UserIDs))

	return transport.ConvertResponse{CompanyID: result.CompanyID, UsersCreated: len(result.UserIDs)}, nil
}

// companyFromLead merges the optional request overrides over the lead's own
// company fields.
func companyFromLead(lead repository.Lead, override transport.ConvertCompany) repository.CompanyParams {
	company := repository.CompanyParams{
		Name:       lead.CompanyName,
		TaxID:      lead.TaxID,
		Sector:     lead.Sector,
		Address:    lead.Address,
		City:       lead.City,
		PostalCode: lead.PostalCode,
		Email:      lead.Email,
		Phone:      lead.Phone,
	}
	if override.Name != nil {
		company.Name = *override.Name
	}
	if override.TaxID != nil {
		company.TaxID = *override.TaxID
	}
	if override.Sector != nil {
		company.Sector = override.Sector
	}
	if override.Address != nil {
		company.Address = override.Address
	}
	if override.City != nil {
		company.City = override.City
	}
	if override.PostalCode != nil {
		company.PostalCode = override.PostalCode
	}
	if override.Email != nil {
		company.Email = *override.Email
	}
	if override.Phone != nil {
		company.Phone = override.Phone
	}
	return company
}

// buildUsers maps the persisted roster to user accounts. The primary contact
// becomes the company admin with a generated one-time password; a roster
// without an explicit primary falls back to the oldest contact. Everyone
// else gets a plain account pending separate activation.
func buildUsers(companyName string, contacts []repository.Contact) ([]repository.NewUser, repository.Contact, string, error) {
	if len(contacts) == 0 {
		return nil, repository.Contact{}, "", apperr.Precondition("no es pot convertir un lead sense contactes")
	}

	primary := contacts[0]
	for _, c := range contacts {
		if c.IsPrimary {
			primary = c
			break
		}
	}

	password := domain.GeneratePassword(companyName, time.Now())
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, repository.Contact{}, "", fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	users := make([]repository.NewUser, 0, len(contacts))
	users = append(users, repository.NewUser{
		Email:              primary.Email,
		FirstName:          primary.FirstName,
		LastName:           primary.LastName,
		Role:               domain.RoleCompanyAdmin,
		PasswordHash:       &hashStr,
		MustChangePassword: true,
	})
	for _, c := range contacts {
		if c.ID == primary.ID {
			continue
		}
		users = append(users, repository.NewUser{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Role:      domain.RoleCompanyUser,
		})
	}
	return users, primary, password, nil
}
