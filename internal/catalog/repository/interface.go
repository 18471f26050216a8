package repository

import (
	"context"

	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Repository defines read access to the plan catalog. Plans are reference
// data seeded by migration; the application never writes them.
type Repository interface {
	// List returns all plans ordered by base price.
	List(ctx context.Context) ([]domain.Plan, error)
	// GetByID returns a single plan or apperr.NotFound.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)
}
