package service

import (
	"context"

	"github.com/google/uuid"

	"crm_portal_backend/internal/catalog/repository"
	"crm_portal_backend/internal/catalog/transport"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/logger"
)

// Service provides read access to the plan and extra-services catalogs.
type Service struct {
	repo   repository.Repository
	extras domain.ExtraCatalog
	log    *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, extras domain.ExtraCatalog, log *logger.Logger) *Service {
	return &Service{repo: repo, extras: extras, log: log}
}

// ListPlans retrieves the plan catalog.
func (s *Service) ListPlans(ctx context.Context) (transport.PlanListResponse, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return transport.PlanListResponse{}, err
	}

	out := make([]transport.PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = toPlanResponse(p)
	}
	return transport.PlanListResponse{Data: out}, nil
}

// GetPlan retrieves a single plan by ID.
func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// ExtraCatalog returns the fixed extra-services catalog.
func (s *Service) ExtraCatalog() domain.ExtraCatalog {
	return s.extras
}

// ListExtras retrieves the extra-services catalog ordered by id.
func (s *Service) ListExtras() transport.ExtraServiceListResponse {
	extras := SortedExtras(s.extras)
	out := make([]transport.ExtraServiceResponse, len(extras))
	for i, e := range extras {
		out[i] = transport.ExtraServiceResponse{ID: e.ID, Name: e.Name, Price: e.PriceCents}
	}
	return transport.ExtraServiceListResponse{Data: out}
}

func toPlanResponse(p domain.Plan) transport.PlanResponse {
	return transport.PlanResponse{
		ID:             p.ID,
		Name:           p.Name,
		BasePrice:      p.BasePriceCents,
		MaxTeamMembers: p.MaxTeamMembers,
	}
}
