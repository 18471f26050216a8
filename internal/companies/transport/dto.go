// Package transport defines response DTOs for the companies HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is a company account.
type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           *string   `json:"lastName,omitempty"`
	Role               string    `json:"role"`
	MustChangePassword bool      `json:"mustChangePassword"`
	CreatedAt          time.Time `json:"createdAt"`
}

// CompanyResponse is a converted customer.
type CompanyResponse struct {
	ID            uuid.UUID      `json:"id"`
	LeadID        uuid.UUID      `json:"leadId"`
	Name          string         `json:"name"`
	TaxID         string         `json:"taxId"`
	Sector        *string        `json:"sector,omitempty"`
	Address       *string        `json:"address,omitempty"`
	City          *string        `json:"city,omitempty"`
	PostalCode    *string        `json:"postalCode,omitempty"`
	Email         string         `json:"email"`
	Phone         *string        `json:"phone,omitempty"`
	PlanID        uuid.UUID      `json:"planId"`
	Extras        []string       `json:"extras"`
	TotalCents    int64          `json:"totalCents"`
	ContractStart *time.Time     `json:"contractStart,omitempty"`
	ContractNotes *string        `json:"contractNotes,omitempty"`
	Users         []UserResponse `json:"users,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// CompanyListResponse is a paginated company collection.
type CompanyListResponse struct {
	Data   []CompanyResponse `json:"data"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
