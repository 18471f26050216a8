// Package notification turns persisted outbox records into delivered emails.
// Domain modules write intents into the outbox inside their own
// transactions; the scheduler announces due records on the event bus and
// this module performs the actual delivery with retries.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"crm_portal_backend/internal/email"
	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/logger"
)

// maxAttempts is how often a record is retried before it is parked as failed
// for operator attention.
const maxAttempts = 5

// Module delivers due notifications.
type Module struct {
	outbox *outbox.Repository
	sender email.Sender
	log    *logger.Logger
}

// NewModule creates the notification module.
func NewModule(outboxRepo *outbox.Repository, sender email.Sender, log *logger.Logger) *Module {
	return &Module{outbox: outboxRepo, sender: sender, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// Subscribe wires the module to the event bus. Delivery failures never
// propagate to the publisher; they are recorded on the outbox record and
// retried later.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), events.HandlerFunc(m.handleOutboxDue))

	bus.Subscribe(events.BudgetSent{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if sent, ok := e.(events.BudgetSent); ok {
			m.log.Info("budget dispatched", "lead_id", sent.LeadID.String(), "recipient", sent.Recipient, "total_cents", sent.TotalCents)
		}
		return nil
	}))
	bus.Subscribe(events.LeadConverted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if converted, ok := e.(events.LeadConverted); ok {
			m.log.Info("lead converted", "lead_id", converted.LeadID.String(), "company_id", converted.CompanyID.String(), "users_created", converted.UsersCreated)
		}
		return nil
	}))
}

func (m *Module) handleOutboxDue(ctx context.Context, e events.Event) error {
	due, ok := e.(events.NotificationOutboxDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	record, err := m.outbox.GetByID(ctx, due.OutboxID)
	if err != nil {
		return err
	}
	if record.Status == outbox.StatusSucceeded {
		return nil
	}

	if err := m.deliver(ctx, record); err != nil {
		message := err.Error()
		m.log.Error("notification delivery failed",
			"outbox_id", record.ID.String(),
			"template", record.Template,
			"attempts", record.Attempts+1,
			"error", message,
		)
		if record.Attempts+1 >= maxAttempts {
			return m.outbox.MarkFailed(ctx, record.ID, &message)
		}
		return m.outbox.MarkPending(ctx, record.ID, &message)
	}

	m.log.Info("notification delivered", "outbox_id", record.ID.String(), "template", record.Template)
	return m.outbox.MarkSucceeded(ctx, record.ID)
}

func (m *Module) deliver(ctx context.Context, record outbox.Record) error {
	switch record.Template {
	case outbox.TemplateCredentials:
		var p outbox.CredentialsPayload
		if err := json.Unmarshal(record.Payload, &p); err != nil {
			return fmt.Errorf("decode credentials payload: %w", err)
		}
		return m.sender.SendCredentialsEmail(ctx, p.To, p.CompanyName, p.Username, p.Password)

	case outbox.TemplatePressupost:
		var p outbox.PressupostPayload
		if err := json.Unmarshal(record.Payload, &p); err != nil {
			return fmt.Errorf("decode pressupost payload: %w", err)
		}
		return m.sender.SendPressupostEmail(ctx, p.To, p.CompanyName, p.PlanName, p.ExtraNames, p.TotalCents, p.Notes)

	case outbox.TemplateConversio:
		var p outbox.ConversioPayload
		if err := json.Unmarshal(record.Payload, &p); err != nil {
			return fmt.Errorf("decode conversio payload: %w", err)
		}
		return m.sender.SendConversioEmail(ctx, p.To, p.CompanyName, p.UsersCreated)

	default:
		return fmt.Errorf("unknown notification template %q", record.Template)
	}
}
