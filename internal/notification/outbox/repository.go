// Package outbox persists notification intents transactionally so that
// domain transactions never depend on delivery, and delivery can be retried.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusEnqueued       Status = "enqueued"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
	errRepoNotConfigured        = "outbox repository not configured"
)

// Email templates delivered through the outbox.
const (
	KindEmail = "email"

	TemplateCredentials = "credentials"
	TemplatePressupost  = "pressupost"
	TemplateConversio   = "conversio"
)

type Record struct {
	ID        uuid.UUID
	Kind      string
	Template  string
	Payload   json.RawMessage
	RunAt     time.Time
	Status    Status
	Attempts  int
	LastError *string
}

type InsertParams struct {
	Kind     string
	Template string
	Payload  any
	RunAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new pending record using the pool.
func (r *Repository) Insert(ctx context.Context, p InsertParams) (uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, errors.New(errRepoNotConfigured)
	}
	return insert(ctx, r.pool, p)
}

// InsertTx stores a new pending record inside the caller's transaction.
// This is how domain operations make notification intents atomic with their
// own writes.
func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, p InsertParams) (uuid.UUID, error) {
	return insert(ctx, tx, p)
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insert(ctx context.Context, q execQuerier, p InsertParams) (uuid.UUID, error) {
	if p.Kind == "" {
		return uuid.Nil, fmt.Errorf("kind is required")
	}
	if p.Template == "" {
		return uuid.Nil, fmt.Errorf("template is required")
	}
	if p.RunAt.IsZero() {
		p.RunAt = time.Now().UTC()
	}

	payloadBytes, err := json.Marshal(p.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal payload: %w", err)
	}

	var id uuid.UUID
	err = q.QueryRow(ctx, `
		INSERT INTO notification_outbox (kind, template, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Kind, p.Template, payloadBytes, p.RunAt, StatusPending).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert outbox record: %w", err)
	}
	return id, nil
}

// ClaimPending atomically moves due pending records to enqueued and returns
// them. Records claimed but never delivered are retried via MarkPending.
func (r *Repository) ClaimPending(ctx context.Context, limit int) ([]Record, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New(errRepoNotConfigured)
	}
	if limit < 1 {
		limit = 1
	}

	rows, err := r.pool.Query(ctx, `
		UPDATE notification_outbox
		SET status = $1, updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = $2 AND run_at <= now()
			ORDER BY run_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, template, payload, run_at, status, attempts, last_error
	`, StatusEnqueued, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending outbox records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Template, &rec.Payload, &rec.RunAt, &rec.Status, &rec.Attempts, &rec.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID loads a single record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	if r == nil || r.pool == nil {
		return Record{}, errors.New(errRepoNotConfigured)
	}

	var rec Record
	err := r.pool.QueryRow(ctx, `
		SELECT id, kind, template, payload, run_at, status, attempts, last_error
		FROM notification_outbox
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Kind, &rec.Template, &rec.Payload, &rec.RunAt, &rec.Status, &rec.Attempts, &rec.LastError)
	if err != nil {
		return Record{}, fmt.Errorf("get outbox record: %w", err)
	}
	return rec, nil
}

// MarkPending returns a record to the pending state for retry, recording the
// failure and bumping the attempt counter.
func (r *Repository) MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error {
	return r.setStatus(ctx, id, StatusPending, lastError, true)
}

// MarkSucceeded marks a record as delivered.
func (r *Repository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, StatusSucceeded, nil, false)
}

// MarkFailed marks a record as permanently failed for operator attention.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, lastError *string) error {
	return r.setStatus(ctx, id, StatusFailed, lastError, true)
}

func (r *Repository) setStatus(ctx context.Context, id uuid.UUID, status Status, lastError *string, bumpAttempts bool) error {
	if r == nil || r.pool == nil {
		return errors.New(errRepoNotConfigured)
	}

	attemptDelta := 0
	if bumpAttempts {
		attemptDelta = 1
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $2, last_error = COALESCE($3, last_error), attempts = attempts + $4, updated_at = now()
		WHERE id = $1
	`, id, status, lastError, attemptDelta)
	if err != nil {
		return fmt.Errorf("update outbox status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outbox record %s not found", id)
	}
	return nil
}
