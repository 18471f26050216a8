package domain

import "github.com/google/uuid"

// Plan is the read-only subscription tier a lead selects. Prices are cents.
type Plan struct {
	ID             uuid.UUID
	Name           string
	BasePriceCents int64
	MaxTeamMembers int
}

// ExtraService is an optional priced add-on from the fixed catalog.
type ExtraService struct {
	ID         string
	Name       string
	PriceCents int64
}

// ExtraCatalog indexes the extra-services catalog by id.
type ExtraCatalog map[string]ExtraService

// PriceBreakdown is the computed precontract price. It is derived state:
// recomputed on every read, never cached.
type PriceBreakdown struct {
	BaseCents   int64
	ExtrasCents int64
	TotalCents  int64
}

// defaultCapacity applies when no plan has been selected yet.
const defaultCapacity = 1

// Price computes the precontract total for a plan plus selected extras.
// A nil plan prices at 0. Selected ids are treated as a set (duplicates
// count once) and unknown ids contribute nothing.
func Price(plan *Plan, extraIDs []string, catalog ExtraCatalog) PriceBreakdown {
	var breakdown PriceBreakdown
	if plan != nil {
		breakdown.BaseCents = plan.BasePriceCents
	}

	seen := make(map[string]struct{}, len(extraIDs))
	for _, id := range extraIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if extra, ok := catalog[id]; ok {
			breakdown.ExtrasCents += extra.PriceCents
		}
	}

	breakdown.TotalCents = breakdown.BaseCents + breakdown.ExtrasCents
	return breakdown
}

// Capacity returns the contact roster limit for the selected plan,
// falling back to a single seat when no plan is selected.
func Capacity(plan *Plan) int {
	if plan == nil || plan.MaxTeamMembers < 1 {
		return defaultCapacity
	}
	return plan.MaxTeamMembers
}
