package domain

// Roles assigned to user accounts created by conversion. The primary contact
// becomes the company admin; everyone else gets a plain seat pending a
// separate activation flow.
const (
	RoleCompanyAdmin = "COMPANY_ADMIN"
	RoleCompanyUser  = "COMPANY_USER"
)
