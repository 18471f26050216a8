package domain

import "github.com/google/uuid"

// VerificationState holds the CRM verification checks recorded on a lead
// before it can be handed to an admin or converted. It is persisted as
// explicit columns, never as a loose JSON blob.
type VerificationState struct {
	EmpresaVerificada bool
	ContacteVerificat bool
	CIFValidat        bool
	ContacteRealitzat bool
	PlanID            *uuid.UUID
	Extras            []string
	Notes             string
}

// LeadFacts is the readiness input: the verification state plus the lead
// fields the conversion gate inspects.
type LeadFacts struct {
	CompanyName  string
	TaxID        string
	Email        string
	ContactCount int
	Verification VerificationState
}

// Readiness is the output of the verification gate. Absence of readiness is
// data, not an error.
type Readiness struct {
	ReadyForAdminHandoff bool
	ReadyForConversion   bool
	MissingFields        []string
}

// Missing-field labels. These strings are shown verbatim to users, so both
// their wording and their order in MissingFields are part of the contract.
const (
	MissingCompanyName       = "nom de l'empresa"
	MissingTaxID             = "CIF/NIF"
	MissingEmail             = "email de contacte"
	MissingContacts          = "almenys un contacte"
	MissingPlan              = "pla seleccionat"
	MissingEmpresaVerificada = "empresa verificada"
	MissingContacteVerificat = "contacte verificat"
	MissingCIFValidat        = "CIF validat"
	MissingContacteRealitzat = "contacte realitzat"
)

// ComputeReadiness evaluates the verification gate for a lead.
//
// ReadyForAdminHandoff requires the four verification checks plus a selected
// plan. ReadyForConversion additionally requires at least one contact and the
// company name, tax id and email fields. MissingFields lists every unmet
// requirement in the fixed order: company name, tax id, email, contacts,
// plan, then the four verification checks.
func ComputeReadiness(f LeadFacts) Readiness {
	missing := make([]string, 0, 9)

	if f.CompanyName == "" {
		missing = append(missing, MissingCompanyName)
	}
	if f.TaxID == "" {
		missing = append(missing, MissingTaxID)
	}
	if f.Email == "" {
		missing = append(missing, MissingEmail)
	}
	if f.ContactCount < 1 {
		missing = append(missing, MissingContacts)
	}
	if f.Verification.PlanID == nil {
		missing = append(missing, MissingPlan)
	}
	if !f.Verification.EmpresaVerificada {
		missing = append(missing, MissingEmpresaVerificada)
	}
	if !f.Verification.ContacteVerificat {
		missing = append(missing, MissingContacteVerificat)
	}
	if !f.Verification.CIFValidat {
		missing = append(missing, MissingCIFValidat)
	}
	if !f.Verification.ContacteRealitzat {
		missing = append(missing, MissingContacteRealitzat)
	}

	handoff := f.Verification.EmpresaVerificada &&
		f.Verification.ContacteVerificat &&
		f.Verification.CIFValidat &&
		f.Verification.ContacteRealitzat &&
		f.Verification.PlanID != nil

	conversion := handoff &&
		f.ContactCount >= 1 &&
		f.CompanyName != "" &&
		f.TaxID != "" &&
		f.Email != ""

	return Readiness{
		ReadyForAdminHandoff: handoff,
		ReadyForConversion:   conversion,
		MissingFields:        missing,
	}
}
