// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// BudgetSent is published after a precontract quote has been dispatched for
// a lead (budget approval state moved to SENT).
type BudgetSent struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	Recipient  string    `json:"recipient"`
	TotalCents int64     `json:"totalCents"`
}

func (e BudgetSent) EventName() string { return "leads.budget.sent" }

// LeadConverted is published after a lead has been atomically converted into
// a company with its initial user accounts.
type LeadConverted struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	CompanyID    uuid.UUID `json:"companyId"`
	UsersCreated int       `json:"usersCreated"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }

// =============================================================================
// Notification Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler worker when an outbox
// record is due for delivery.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }
