package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/apperr"
)

// MarkBudgetSent persists the precontract snapshot, flips the budget to sent,
// and records the quote email intent, all in one transaction.
func (r *PostgresRepository) MarkBudgetSent(ctx context.Context, p MarkBudgetSentParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockLead(ctx, tx, p.LeadID)
	if err != nil {
		return Lead{}, err
	}
	if domain.Status(status).IsTerminal() {
		return Lead{}, apperr.Conflict(fmt.Sprintf("cannot send a quote for a %s lead", status))
	}

	lead, err := scanLead(tx.QueryRow(ctx, `
		UPDATE leads
		SET plan_id = $2, extras = $3, precontract_notes = $4,
		    budget_sent = true, budget_sent_at = now(), budget_recipient = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		p.LeadID, p.PlanID, p.Extras, p.PrecontractNotes, p.Recipient,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("mark budget sent: %w", err)
	}

	for _, record := range p.Outbox {
		if _, err := r.outbox.InsertTx(ctx, tx, record); err != nil {
			return Lead{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit transaction: %w", err)
	}
	return lead, nil
}

// ConvertToCompany promotes a lead to a customer in a single transaction:
// lock the lead, validate the WON transition against the status read under
// the lock, create the company and its user accounts, and record the
// notification intents. Any failure rolls everything back and the lead stays
// untouched.
func (r *PostgresRepository) ConvertToCompany(ctx context.Context, p ConvertParams) (ConvertResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockLead(ctx, tx, p.LeadID)
	if err != nil {
		return ConvertResult{}, err
	}
	if err := domain.Transition(domain.Status(status), domain.StatusWon); err != nil {
		return ConvertResult{}, err
	}

	var companyID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO companies (lead_id, name, tax_id, sector, address, city, postal_code, email, phone,
		                       plan_id, extras, total_cents, contract_start, contract_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		p.LeadID, p.Company.Name, p.Company.TaxID, p.Company.Sector, p.Company.Address,
		p.Company.City, p.Company.PostalCode, p.Company.Email, p.Company.Phone,
		p.PlanID, p.Extras, p.TotalCents, p.ContractStart, p.ContractNotes,
	).Scan(&companyID)
	if err != nil {
		if isUniqueViolation(err) {
			return ConvertResult{}, apperr.Conflict("a company with this CIF/NIF already exists")
		}
		return ConvertResult{}, fmt.Errorf("insert company: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(p.Users))
	for _, u := range p.Users {
		var userID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO users (company_id, email, first_name, last_name, role, password_hash, must_change_password)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			companyID, u.Email, u.FirstName, u.LastName, u.Role, u.PasswordHash, u.MustChangePassword,
		).Scan(&userID)
		if err != nil {
			if isUniqueViolation(err) {
				return ConvertResult{}, apperr.Conflict(fmt.Sprintf("a user with email %s already exists", u.Email))
			}
			return ConvertResult{}, fmt.Errorf("insert user: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, domain.StatusWon, p.LeadID, status)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ConvertResult{}, apperr.Conflict("lead status changed concurrently")
	}

	for _, record := range p.Outbox {
		if _, err := r.outbox.InsertTx(ctx, tx, record); err != nil {
			return ConvertResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ConvertResult{}, fmt.Errorf("commit transaction: %w", err)
	}
	return ConvertResult{CompanyID: companyID, UserIDs: userIDs}, nil
}
