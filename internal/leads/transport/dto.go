// Package transport defines request/response DTOs for the leads HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest contains data for registering a new lead.
type CreateLeadRequest struct {
	CompanyName string  `json:"companyName" validate:"required,min=2,max=200"`
	TaxID       string  `json:"taxId" validate:"required,min=8,max=20"`
	Sector      *string `json:"sector,omitempty" validate:"omitempty,max=100"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode,omitempty" validate:"omitempty,max=10"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// UpdateLeadRequest is the generic PATCH body. All fields are optional; the
// only status accepted here is LOST (every other transition has a dedicated
// endpoint).
type UpdateLeadRequest struct {
	CompanyName *string `json:"companyName,omitempty" validate:"omitempty,min=2,max=200"`
	TaxID       *string `json:"taxId,omitempty" validate:"omitempty,min=8,max=20"`
	Sector      *string `json:"sector,omitempty" validate:"omitempty,max=100"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode,omitempty" validate:"omitempty,max=10"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Status      *string `json:"status,omitempty"`

	EmpresaVerificada *bool      `json:"empresaVerificada,omitempty"`
	ContacteVerificat *bool      `json:"contacteVerificat,omitempty"`
	CIFValidat        *bool      `json:"cifValidat,omitempty"`
	ContacteRealitzat *bool      `json:"contacteRealitzat,omitempty"`
	PlanID            *uuid.UUID `json:"planId,omitempty"`
	Extras            *[]string  `json:"extras,omitempty"`
	CRMNotes          *string    `json:"crmNotes,omitempty" validate:"omitempty,max=5000"`
}

// VerificationResponse mirrors the verification columns of a lead.
type VerificationResponse struct {
	EmpresaVerificada bool       `json:"empresaVerificada"`
	ContacteVerificat bool       `json:"contacteVerificat"`
	CIFValidat        bool       `json:"cifValidat"`
	ContacteRealitzat bool       `json:"contacteRealitzat"`
	PlanID            *uuid.UUID `json:"planId"`
	Extras            []string   `json:"extras"`
	Notes             string     `json:"notes,omitempty"`
}

// PriceResponse is the recomputed precontract price, in euro cents.
type PriceResponse struct {
	Base        int64 `json:"base"`
	ExtrasTotal int64 `json:"extrasTotal"`
	Total       int64 `json:"total"`
}

// LeadResponse is the full lead representation.
type LeadResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	TaxID       string    `json:"taxId"`
	Sector      *string   `json:"sector,omitempty"`
	Address     *string   `json:"address,omitempty"`
	City        *string   `json:"city,omitempty"`
	PostalCode  *string   `json:"postalCode,omitempty"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Status      string    `json:"status"`

	Verification VerificationResponse `json:"verification"`
	Price        PriceResponse        `json:"price"`
	BudgetState  string               `json:"budgetState"`
	BudgetSentAt *time.Time           `json:"budgetSentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeadListResponse is a paginated lead collection.
type LeadListResponse struct {
	Data   []LeadResponse `json:"data"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ReadinessResponse reports the verification gate outcome for a lead.
type ReadinessResponse struct {
	ReadyForAdminHandoff bool     `json:"readyForAdminHandoff"`
	ReadyForConversion   bool     `json:"readyForConversion"`
	MissingFields        []string `json:"missingFields"`
}

// ContactRequest contains data for adding a contact to a lead's roster.
type ContactRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Position  *string `json:"position,omitempty" validate:"omitempty,max=100"`
	IsPrimary bool    `json:"isPrimary"`
}

// ContactResponse is a single roster entry.
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  *string   `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Position  *string   `json:"position,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactListResponse wraps the roster.
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

// SendBudgetRequest is the body of the "enviar pressupost" action. PreuTotal
// is advisory: the server recomputes the price and uses its own figure.
type SendBudgetRequest struct {
	PlanID            uuid.UUID `json:"planId" validate:"required"`
	Extres            []string  `json:"extres" validate:"max=20,dive,min=1,max=50"`
	PreuTotal         *int64    `json:"preuTotal,omitempty"`
	EmailDestinari    string    `json:"emailDestinari" validate:"required,email"`
	NotesPrecontracte *string   `json:"notesPrecontracte,omitempty" validate:"omitempty,max=5000"`
}

// CRMData is the verification + pricing snapshot submitted on admin handoff.
type CRMData struct {
	EmpresaVerificada bool       `json:"empresaVerificada"`
	ContacteVerificat bool       `json:"contacteVerificat"`
	CIFValidat        bool       `json:"cifValidat"`
	ContacteRealitzat bool       `json:"contacteRealitzat"`
	PlanID            *uuid.UUID `json:"planId"`
	Extras            []string   `json:"extras" validate:"max=20,dive,min=1,max=50"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// HandoffRequest is the body of the "passar admin" action.
type HandoffRequest struct {
	CRMData CRMData `json:"crmData"`
}

// ConvertCompany contains optional overrides for the company record created
// by conversion. Empty fields fall back to the lead's own values.
type ConvertCompany struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	TaxID      *string `json:"taxId,omitempty" validate:"omitempty,min=8,max=20"`
	Sector     *string `json:"sector,omitempty" validate:"omitempty,max=100"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=10"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ConvertContract is the contract snapshot for conversion. PreuTotal is
// advisory; the server recomputes.
type ConvertContract struct {
	PlanID    uuid.UUID  `json:"planId" validate:"required"`
	Extres    []string   `json:"extres" validate:"max=20,dive,min=1,max=50"`
	PreuTotal *int64     `json:"preuTotal,omitempty"`
	DataInici *time.Time `json:"dataInici,omitempty"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ConvertRequest is the body of the "convertir empresa" action. Contacts may
// echo the roster for display purposes but the persisted roster is
// authoritative for user creation.
type ConvertRequest struct {
	Company         ConvertCompany   `json:"company"`
	Contacts        []ContactRequest `json:"contacts,omitempty"`
	Contract        ConvertContract  `json:"contract"`
	SendCredentials bool             `json:"sendCredentials"`
	NotifyCRM       bool             `json:"notifyCRM"`
}

// ConvertResponse reports the conversion outcome.
type ConvertResponse struct {
	CompanyID    uuid.UUID `json:"companyId"`
	UsersCreated int       `json:"usersCreated"`
}
