package domain

import "time"

// BudgetState is the budget-approval sub-state guarding conversion when paid
// extras are selected.
type BudgetState string

const (
	// BudgetNotRequired applies when no extras are selected; the gate is
	// vacuously satisfied.
	BudgetNotRequired BudgetState = "NOT_REQUIRED"
	// BudgetPending applies when extras are selected but no quote was sent.
	BudgetPending BudgetState = "PENDING"
	// BudgetSent applies once the quote has been dispatched. Sending is
	// treated as sufficient to unblock conversion; there is no approved or
	// rejected terminal state.
	BudgetSent BudgetState = "SENT"
)

// BudgetApproval records whether and when a quote was sent for a lead.
type BudgetApproval struct {
	Sent   bool
	SentAt *time.Time
}

// BudgetStateFor derives the budget-approval state from the selected extras
// and the send record.
func BudgetStateFor(extrasCount int, approval BudgetApproval) BudgetState {
	if extrasCount == 0 {
		return BudgetNotRequired
	}
	if approval.Sent {
		return BudgetSent
	}
	return BudgetPending
}

// BlocksConversion reports whether the budget gate prevents conversion.
func (s BudgetState) BlocksConversion() bool {
	return s == BudgetPending
}
