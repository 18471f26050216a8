// Package repository implements PostgreSQL persistence for leads, their
// contact rosters, and the conversion unit of work.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/apperr"
)

const leadColumns = `
	id, company_name, tax_id, sector, address, city, postal_code, email, phone, status,
	empresa_verificada, contacte_verificat, cif_validat, contacte_realitzat,
	plan_id, extras, crm_notes,
	precontract_notes, budget_sent, budget_sent_at, budget_recipient,
	created_at, updated_at`

type PostgresRepository struct {
	pool   *pgxpool.Pool
	outbox *outbox.Repository
}

func NewPostgresRepository(pool *pgxpool.Pool, outboxRepo *outbox.Repository) *PostgresRepository {
	return &PostgresRepository{pool: pool, outbox: outboxRepo}
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.CompanyName, &l.TaxID, &l.Sector, &l.Address, &l.City, &l.PostalCode, &l.Email, &l.Phone, &l.Status,
		&l.EmpresaVerificada, &l.ContacteVerificat, &l.CIFValidat, &l.ContacteRealitzat,
		&l.PlanID, &l.Extras, &l.CRMNotes,
		&l.PrecontractNotes, &l.BudgetSent, &l.BudgetSentAt, &l.BudgetRecipient,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new lead in the NEW status.
func (r *PostgresRepository) Create(ctx context.Context, p CreateLeadParams) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (company_name, tax_id, sector, address, city, postal_code, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns,
		p.CompanyName, p.TaxID, p.Sector, p.Address, p.City, p.PostalCode, p.Email, p.Phone, domain.StatusNew,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Lead{}, apperr.Conflict("a lead with this CIF/NIF already exists")
		}
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID loads a lead by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns a filtered page of leads plus the total match count.
func (r *PostgresRepository) List(ctx context.Context, p ListParams) ([]Lead, int, error) {
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	var conditions []string
	var args []any
	if p.Status != nil {
		args = append(args, *p.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(company_name ILIKE $%d OR tax_id ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

// Update applies a partial update. Nil fields are left untouched.
func (r *PostgresRepository) Update(ctx context.Context, p UpdateLeadParams) (Lead, error) {
	set := []string{"updated_at = now()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.CompanyName != nil {
		add("company_name", *p.CompanyName)
	}
	if p.TaxID != nil {
		add("tax_id", *p.TaxID)
	}
	if p.Sector != nil {
		add("sector", *p.Sector)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	if p.City != nil {
		add("city", *p.City)
	}
	if p.PostalCode != nil {
		add("postal_code", *p.PostalCode)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.EmpresaVerificada != nil {
		add("empresa_verificada", *p.EmpresaVerificada)
	}
	if p.ContacteVerificat != nil {
		add("contacte_verificat", *p.ContacteVerificat)
	}
	if p.CIFValidat != nil {
		add("cif_validat", *p.CIFValidat)
	}
	if p.ContacteRealitzat != nil {
		add("contacte_realitzat", *p.ContacteRealitzat)
	}
	if p.ClearPlan {
		set = append(set, "plan_id = NULL")
	} else if p.PlanID != nil {
		add("plan_id", *p.PlanID)
	}
	if p.ExtrasSet {
		add("extras", p.Extras)
	}
	if p.CRMNotes != nil {
		add("crm_notes", *p.CRMNotes)
	}

	args = append(args, p.ID)
	lead, err := scanLead(r.pool.QueryRow(ctx, fmt.Sprintf(
		`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), leadColumns), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		if isUniqueViolation(err) {
			return Lead{}, apperr.Conflict("a lead with this CIF/NIF already exists")
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

// UpdateStatus performs a compare-and-set transition. The WHERE clause on the
// expected status makes concurrent transitions lose cleanly.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	if err := domain.Transition(from, to); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the lead is gone or someone else transitioned it first.
		var current domain.Status
		err := r.pool.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("lead not found")
		}
		if err != nil {
			return fmt.Errorf("load lead status: %w", err)
		}
		return apperr.Conflict(fmt.Sprintf("lead status changed concurrently (now %s)", current))
	}
	return nil
}

// Delete removes a lead and, via cascade, its contacts.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}
