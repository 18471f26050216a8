package outbox

// CredentialsPayload is the outbox payload for the one-time credentials email
// sent to the company admin created by a conversion. The password is a
// one-time secret; the created user must change it on first login.
type CredentialsPayload struct {
	To          string `json:"to"`
	CompanyName string `json:"companyName"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// PressupostPayload is the outbox payload for the precontract quote email.
type PressupostPayload struct {
	To          string   `json:"to"`
	CompanyName string   `json:"companyName"`
	PlanName    string   `json:"planName"`
	ExtraNames  []string `json:"extraNames"`
	TotalCents  int64    `json:"totalCents"`
	Notes       string   `json:"notes,omitempty"`
}

// ConversioPayload is the outbox payload for the conversion notification sent
// back to the CRM actor who worked the lead.
type ConversioPayload struct {
	To           string `json:"to"`
	CompanyName  string `json:"companyName"`
	UsersCreated int    `json:"usersCreated"`
}
