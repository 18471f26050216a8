// Package repository implements PostgreSQL persistence for converted
// companies and their user accounts. Rows are created exclusively by the
// lead conversion transaction; this module only reads them.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/platform/apperr"
)

// Company is a customer created from a won lead.
type Company struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	Name          string
	TaxID         string
	Sector        *string
	Address       *string
	City          *string
	PostalCode    *string
	Email         string
	Phone         *string
	PlanID        uuid.UUID
	Extras        []string
	TotalCents    int64
	ContractStart *time.Time
	ContractNotes *string
	CreatedAt     time.Time
}

// User is an account belonging to a company.
type User struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	Email              string
	FirstName          string
	LastName           *string
	Role               string
	MustChangePassword bool
	CreatedAt          time.Time
}

// ListParams filters and paginates the company list.
type ListParams struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines read access to companies.
type Repository interface {
	List(ctx context.Context, p ListParams) ([]Company, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	ListUsers(ctx context.Context, companyID uuid.UUID) ([]User, error)
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const companyColumns = `
	id, lead_id, name, tax_id, sector, address, city, postal_code, email, phone,
	plan_id, extras, total_cents, contract_start, contract_notes, created_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.LeadID, &c.Name, &c.TaxID, &c.Sector, &c.Address, &c.City, &c.PostalCode, &c.Email, &c.Phone,
		&c.PlanID, &c.Extras, &c.TotalCents, &c.ContractStart, &c.ContractNotes, &c.CreatedAt,
	)
	return c, err
}

// List returns a filtered page of companies plus the total match count.
func (r *PostgresRepository) List(ctx context.Context, p ListParams) ([]Company, int, error) {
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	where := ""
	var args []any
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where = " WHERE (name ILIKE $1 OR tax_id ILIKE $1 OR email ILIKE $1)"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM companies`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	args = append(args, p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM companies%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		companyColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

// GetByID loads a company by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound("company not found")
		}
		return Company{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// ListUsers returns the company's accounts, admins first.
func (r *PostgresRepository) ListUsers(ctx context.Context, companyID uuid.UUID) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, email, first_name, last_name, role, must_change_password, created_at
		FROM users
		WHERE company_id = $1
		ORDER BY role ASC, created_at ASC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.MustChangePassword, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
