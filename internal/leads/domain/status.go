// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"fmt"

	"crm_portal_backend/platform/apperr"
)

// Status is the lifecycle state of a lead in the sales pipeline.
type Status string

const (
	StatusNew          Status = "NEW"
	StatusQualifying   Status = "QUALIFYING"
	StatusPendingAdmin Status = "PENDING_ADMIN"
	StatusWon          Status = "WON"
	StatusLost         Status = "LOST"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:          {},
	StatusQualifying:   {},
	StatusPendingAdmin: {},
	StatusWon:          {},
	StatusLost:         {},
}

// IsKnownStatus reports whether the value is a recognized lead status.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// CanTransition reports whether a lead may move from one status to another.
// LOST is reachable from any non-terminal status. WON is reachable from any
// non-terminal status as well; the conversion gates (readiness, budget) are
// the real preconditions and are enforced by the conversion service.
func CanTransition(from, to Status) bool {
	if !IsKnownStatus(from) || !IsKnownStatus(to) || from == to {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	switch to {
	case StatusLost, StatusWon:
		return true
	case StatusQualifying:
		return from == StatusNew
	case StatusPendingAdmin:
		return from == StatusNew || from == StatusQualifying
	default:
		return false
	}
}

// Transition validates a status change. Transitions are the only way a lead
// status may be mutated; callers must not assign the field directly.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return apperr.Conflict(fmt.Sprintf("invalid lead status transition %s -> %s", from, to))
	}
	return nil
}
