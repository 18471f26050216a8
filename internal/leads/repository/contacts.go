package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crm_portal_backend/platform/apperr"
)

const contactColumns = `id, lead_id, first_name, last_name, email, phone, position, is_primary, created_at`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.LeadID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Position, &c.IsPrimary, &c.CreatedAt)
	return c, err
}

// lockLead takes a row lock on the lead so concurrent roster mutations for
// the same lead serialize. Returns the current status for callers that gate
// on it.
func lockLead(ctx context.Context, tx pgx.Tx, leadID uuid.UUID) (string, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("lead not found")
	}
	if err != nil {
		return "", fmt.Errorf("lock lead: %w", err)
	}
	return status, nil
}

// ListContacts returns the roster ordered primary-first, then oldest-first.
func (r *PostgresRepository) ListContacts(ctx context.Context, leadID uuid.UUID) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM lead_contacts
		WHERE lead_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// AddContact inserts a contact, enforcing the plan capacity under the lead
// row lock. The first contact on a lead becomes primary automatically; an
// explicit primary request demotes the current one.
func (r *PostgresRepository) AddContact(ctx context.Context, p AddContactParams) (Contact, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Contact{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockLead(ctx, tx, p.LeadID); err != nil {
		return Contact{}, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM lead_contacts WHERE lead_id = $1`, p.LeadID).Scan(&count); err != nil {
		return Contact{}, fmt.Errorf("count contacts: %w", err)
	}
	if count >= p.Capacity {
		return Contact{}, apperr.Conflict(fmt.Sprintf("el pla seleccionat permet un màxim de %d contactes", p.Capacity))
	}

	isPrimary := count == 0 || p.WantPrimary
	if p.WantPrimary && count > 0 {
		if _, err := tx.Exec(ctx, `UPDATE lead_contacts SET is_primary = false WHERE lead_id = $1 AND is_primary`, p.LeadID); err != nil {
			return Contact{}, fmt.Errorf("demote primary contact: %w", err)
		}
	}

	contact, err := scanContact(tx.QueryRow(ctx, `
		INSERT INTO lead_contacts (lead_id, first_name, last_name, email, phone, position, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contactColumns,
		p.LeadID, p.FirstName, p.LastName, p.Email, p.Phone, p.Position, isPrimary,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Contact{}, apperr.Conflict("a contact with this email already exists on the lead")
		}
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Contact{}, fmt.Errorf("commit transaction: %w", err)
	}
	return contact, nil
}

// RemoveContact deletes a contact from the roster. Removing the primary
// contact leaves the lead without one; a new primary must be designated
// explicitly.
func (r *PostgresRepository) RemoveContact(ctx context.Context, leadID, contactID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockLead(ctx, tx, leadID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM lead_contacts WHERE id = $1 AND lead_id = $2`, contactID, leadID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contact not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SetPrimaryContact makes the given contact the single primary for the lead.
// Demotion and promotion happen in one transaction under the lead row lock.
func (r *PostgresRepository) SetPrimaryContact(ctx context.Context, leadID, contactID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockLead(ctx, tx, leadID); err != nil {
		return err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lead_contacts WHERE id = $1 AND lead_id = $2)`, contactID, leadID).Scan(&exists); err != nil {
		return fmt.Errorf("check contact: %w", err)
	}
	if !exists {
		return apperr.NotFound("contact not found")
	}

	if _, err := tx.Exec(ctx, `UPDATE lead_contacts SET is_primary = false WHERE lead_id = $1 AND is_primary`, leadID); err != nil {
		return fmt.Errorf("demote primary contact: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE lead_contacts SET is_primary = true WHERE id = $1`, contactID); err != nil {
		return fmt.Errorf("promote contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
