package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/apperr"
)

const planNotFoundMessage = "plan not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new plan catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List retrieves all plans ordered by base price.
func (r *Repo) List(ctx context.Context) ([]domain.Plan, error) {
	query := `
		SELECT id, name, base_price_cents, max_team_members
		FROM plans
		ORDER BY base_price_cents ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePriceCents, &p.MaxTeamMembers); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetByID retrieves a plan by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	query := `
		SELECT id, name, base_price_cents, max_team_members
		FROM plans
		WHERE id = $1`

	var p domain.Plan
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.BasePriceCents, &p.MaxTeamMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, apperr.NotFound(planNotFoundMessage)
		}
		return domain.Plan{}, fmt.Errorf("get plan by id: %w", err)
	}
	return p, nil
}
