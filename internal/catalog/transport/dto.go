package transport

import "github.com/google/uuid"

// PlanResponse represents a subscription plan in API responses.
// basePrice is in euro cents.
type PlanResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BasePrice      int64     `json:"basePrice"`
	MaxTeamMembers int       `json:"maxTeamMembers"`
}

// PlanListResponse wraps the plan catalog.
type PlanListResponse struct {
	Data []PlanResponse `json:"data"`
}

// ExtraServiceResponse represents an optional priced add-on.
type ExtraServiceResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ExtraServiceListResponse wraps the extra-services catalog.
type ExtraServiceListResponse struct {
	Data []ExtraServiceResponse `json:"data"`
}
