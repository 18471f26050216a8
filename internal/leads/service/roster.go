package service

import (
	"context"

	"github.com/google/uuid"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/phone"
)

// ListContacts returns the lead's roster, primary first.
func (s *Service) ListContacts(ctx context.Context, leadID uuid.UUID) (transport.ContactListResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return transport.ContactListResponse{}, err
	}

	contacts, err := s.repo.ListContacts(ctx, leadID)
	if err != nil {
		return transport.ContactListResponse{}, err
	}

	out := make([]transport.ContactResponse, len(contacts))
	for i, c := range contacts {
		out[i] = toContactResponse(c)
	}
	return transport.ContactListResponse{Contacts: out}, nil
}

// AddContact adds a person to the roster. The capacity limit comes from the
// lead's selected plan, defaulting to a single seat when none is selected.
func (s *Service) AddContact(ctx context.Context, leadID uuid.UUID, req transport.ContactRequest) (transport.ContactResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	if lead.Status.IsTerminal() {
		return transport.ContactResponse{}, apperr.Conflict("cannot modify contacts of a " + string(lead.Status) + " lead")
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}

	contact, err := s.repo.AddContact(ctx, repository.AddContactParams{
		LeadID:      leadID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		WantPrimary: req.IsPrimary,
		Capacity:    domain.Capacity(s.planFor(ctx, lead.PlanID)),
	})
	if err != nil {
		return transport.ContactResponse{}, err
	}
	return toContactResponse(contact), nil
}

// RemoveContact deletes a roster entry. Removing the primary leaves the lead
// without one until a new primary is designated explicitly.
func (s *Service) RemoveContact(ctx context.Context, leadID, contactID uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Status.IsTerminal() {
		return apperr.Conflict("cannot modify contacts of a " + string(lead.Status) + " lead")
	}
	return s.repo.RemoveContact(ctx, leadID, contactID)
}

// SetPrimaryContact promotes the given contact to primary, demoting the
// current one in the same transaction.
func (s *Service) SetPrimaryContact(ctx context.Context, leadID, contactID uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Status.IsTerminal() {
		return apperr.Conflict("cannot modify contacts of a " + string(lead.Status) + " lead")
	}
	return s.repo.SetPrimaryContact(ctx, leadID, contactID)
}

func toContactResponse(c repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Position:  c.Position,
		IsPrimary: c.IsPrimary,
		CreatedAt: c.CreatedAt,
	}
}
