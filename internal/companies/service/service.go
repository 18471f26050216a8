// Package service provides read access to converted companies.
package service

import (
	"context"

	"github.com/google/uuid"

	"crm_portal_backend/internal/companies/repository"
	"crm_portal_backend/internal/companies/transport"
	"crm_portal_backend/platform/logger"
)

// Service provides company queries.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new companies service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns a filtered page of companies.
func (s *Service) List(ctx context.Context, search string, limit, offset int) (transport.CompanyListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	companies, total, err := s.repo.List(ctx, repository.ListParams{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		return transport.CompanyListResponse{}, err
	}

	out := make([]transport.CompanyResponse, len(companies))
	for i, c := range companies {
		out[i] = toCompanyResponse(c, nil)
	}
	return transport.CompanyListResponse{Data: out, Total: total, Limit: limit, Offset: offset}, nil
}

// Get loads a company with its user accounts.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.CompanyResponse, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CompanyResponse{}, err
	}
	users, err := s.repo.ListUsers(ctx, id)
	if err != nil {
		return transport.CompanyResponse{}, err
	}
	return toCompanyResponse(company, users), nil
}

func toCompanyResponse(c repository.Company, users []repository.User) transport.CompanyResponse {
	extras := c.Extras
	if extras == nil {
		extras = []string{}
	}

	out := transport.CompanyResponse{
		ID:            c.ID,
		LeadID:        c.LeadID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		Sector:        c.Sector,
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Email:         c.Email,
		Phone:         c.Phone,
		PlanID:        c.PlanID,
		Extras:        extras,
		TotalCents:    c.TotalCents,
		ContractStart: c.ContractStart,
		ContractNotes: c.ContractNotes,
		CreatedAt:     c.CreatedAt,
	}
	for _, u := range users {
		out.Users = append(out.Users, transport.UserResponse{
			ID:                 u.ID,
			Email:              u.Email,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			Role:               u.Role,
			MustChangePassword: u.MustChangePassword,
			CreatedAt:          u.CreatedAt,
		})
	}
	return out
}
