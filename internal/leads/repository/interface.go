package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/notification/outbox"
)

// Lead is the persisted sales-pipeline record. The verification state and
// precontract snapshot are explicit columns, mutated only through repository
// operations.
type Lead struct {
	ID          uuid.UUID
	CompanyName string
	TaxID       string
	Sector      *string
	Address     *string
	City        *string
	PostalCode  *string
	Email       string
	Phone       *string
	Status      domain.Status

	EmpresaVerificada bool
	ContacteVerificat bool
	CIFValidat        bool
	ContacteRealitzat bool
	PlanID            *uuid.UUID
	Extras            []string
	CRMNotes          *string

	PrecontractNotes *string
	BudgetSent       bool
	BudgetSentAt     *time.Time
	BudgetRecipient  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Verification assembles the domain verification state from the lead columns.
func (l Lead) Verification() domain.VerificationState {
	notes := ""
	if l.CRMNotes != nil {
		notes = *l.CRMNotes
	}
	return domain.VerificationState{
		EmpresaVerificada: l.EmpresaVerificada,
		ContacteVerificat: l.ContacteVerificat,
		CIFValidat:        l.CIFValidat,
		ContacteRealitzat: l.ContacteRealitzat,
		PlanID:            l.PlanID,
		Extras:            l.Extras,
		Notes:             notes,
	}
}

// BudgetApproval assembles the domain budget record from the lead columns.
func (l Lead) BudgetApproval() domain.BudgetApproval {
	return domain.BudgetApproval{Sent: l.BudgetSent, SentAt: l.BudgetSentAt}
}

// Contact is a person attached to a lead. At most one contact per lead is
// primary.
type Contact struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	FirstName string
	LastName  *string
	Email     string
	Phone     *string
	Position  *string
	IsPrimary bool
	CreatedAt time.Time
}

// CreateLeadParams contains data for creating a new lead.
type CreateLeadParams struct {
	CompanyName string
	TaxID       string
	Sector      *string
	Address     *string
	City        *string
	PostalCode  *string
	Email       string
	Phone       *string
}

// UpdateLeadParams contains the partial-update surface for a lead. Nil fields
// are left unchanged. Status is deliberately absent: status changes go
// through UpdateStatus so the state machine cannot be bypassed.
type UpdateLeadParams struct {
	ID          uuid.UUID
	CompanyName *string
	TaxID       *string
	Sector      *string
	Address     *string
	City        *string
	PostalCode  *string
	Email       *string
	Phone       *string

	EmpresaVerificada *bool
	ContacteVerificat *bool
	CIFValidat        *bool
	ContacteRealitzat *bool
	PlanID            *uuid.UUID
	ClearPlan         bool
	Extras            []string
	ExtrasSet         bool
	CRMNotes          *string
}

// ListParams filters and paginates the lead list.
type ListParams struct {
	Status *domain.Status
	Search string
	Limit  int
	Offset int
}

// AddContactParams contains data for adding a contact to a lead. Capacity is
// the roster limit derived from the selected plan; it is enforced inside the
// same transaction that inserts the row.
type AddContactParams struct {
	LeadID      uuid.UUID
	FirstName   string
	LastName    *string
	Email       string
	Phone       *string
	Position    *string
	WantPrimary bool
	Capacity    int
}

// MarkBudgetSentParams persists the precontract snapshot and the SENT budget
// state, and records the quote email intent atomically.
type MarkBudgetSentParams struct {
	LeadID           uuid.UUID
	PlanID           uuid.UUID
	Extras           []string
	PrecontractNotes *string
	Recipient        string
	Outbox           []outbox.InsertParams
}

// NewUser describes a user account to create during conversion.
type NewUser struct {
	Email              string
	FirstName          string
	LastName           *string
	Role               string
	PasswordHash       *string
	MustChangePassword bool
}

// CompanyParams carries the company fields for conversion.
type CompanyParams struct {
	Name       string
	TaxID      string
	Sector     *string
	Address    *string
	City       *string
	PostalCode *string
	Email      string
	Phone      *string
}

// ConvertParams is the all-or-nothing unit of work for converting a lead.
type ConvertParams struct {
	LeadID        uuid.UUID
	Company       CompanyParams
	PlanID        uuid.UUID
	Extras        []string
	TotalCents    int64
	ContractStart *time.Time
	ContractNotes *string
	Users         []NewUser
	Outbox        []outbox.InsertParams
}

// ConvertResult reports what the conversion transaction created.
type ConvertResult struct {
	CompanyID uuid.UUID
	UserIDs   []uuid.UUID
}

// Repository defines persistence for the leads bounded context.
type Repository interface {
	Create(ctx context.Context, p CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, p ListParams) ([]Lead, int, error)
	Update(ctx context.Context, p UpdateLeadParams) (Lead, error)
	// UpdateStatus performs a compare-and-set status transition. It fails
	// with a conflict when the lead is no longer in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListContacts(ctx context.Context, leadID uuid.UUID) ([]Contact, error)
	AddContact(ctx context.Context, p AddContactParams) (Contact, error)
	RemoveContact(ctx context.Context, leadID, contactID uuid.UUID) error
	SetPrimaryContact(ctx context.Context, leadID, contactID uuid.UUID) error

	MarkBudgetSent(ctx context.Context, p MarkBudgetSentParams) (Lead, error)
	ConvertToCompany(ctx context.Context, p ConvertParams) (ConvertResult, error)
}
