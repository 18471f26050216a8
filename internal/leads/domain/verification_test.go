package domain

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func verifiedState(planID *uuid.UUID) VerificationState {
	return VerificationState{
		EmpresaVerificada: true,
		ContacteVerificat: true,
		CIFValidat:        true,
		ContacteRealitzat: true,
		PlanID:            planID,
	}
}

func TestComputeReadinessFullyReady(t *testing.T) {
	planID := uuid.New()
	r := ComputeReadiness(LeadFacts{
		CompanyName:  "Acme SL",
		TaxID:        "B12345678",
		Email:        "info@acme.example",
		ContactCount: 2,
		Verification: verifiedState(&planID),
	})

	if !r.ReadyForAdminHandoff {
		t.Error("expected ready for admin handoff")
	}
	if !r.ReadyForConversion {
		t.Error("expected ready for conversion")
	}
	if len(r.MissingFields) != 0 {
		t.Errorf("expected no missing fields, got %v", r.MissingFields)
	}
}

func TestComputeReadinessAllFlagsButNoPlan(t *testing.T) {
	r := ComputeReadiness(LeadFacts{
		CompanyName:  "Acme SL",
		TaxID:        "B12345678",
		Email:        "info@acme.example",
		ContactCount: 1,
		Verification: verifiedState(nil),
	})

	if r.ReadyForAdminHandoff {
		t.Error("handoff must require a selected plan")
	}
	if r.ReadyForConversion {
		t.Error("conversion must require a selected plan")
	}
	found := false
	for _, f := range r.MissingFields {
		if f == MissingPlan {
			found = true
		}
	}
	if !found {
		t.Errorf("missing fields %v should include %q", r.MissingFields, MissingPlan)
	}
}

func TestComputeReadinessHandoffDoesNotNeedContacts(t *testing.T) {
	planID := uuid.New()
	r := ComputeReadiness(LeadFacts{
		Verification: verifiedState(&planID),
	})

	if !r.ReadyForAdminHandoff {
		t.Error("handoff should only require flags and plan")
	}
	if r.ReadyForConversion {
		t.Error("conversion requires contacts and company fields")
	}
}

func TestComputeReadinessMissingFieldsOrder(t *testing.T) {
	// Nothing filled in: every requirement is reported, in the fixed
	// user-facing order.
	r := ComputeReadiness(LeadFacts{})

	want := []string{
		MissingCompanyName,
		MissingTaxID,
		MissingEmail,
		MissingContacts,
		MissingPlan,
		MissingEmpresaVerificada,
		MissingContacteVerificat,
		MissingCIFValidat,
		MissingContacteRealitzat,
	}
	if !reflect.DeepEqual(r.MissingFields, want) {
		t.Errorf("missing fields order\n got %v\nwant %v", r.MissingFields, want)
	}
}

func TestComputeReadinessPartialFlags(t *testing.T) {
	planID := uuid.New()
	state := verifiedState(&planID)
	state.CIFValidat = false

	r := ComputeReadiness(LeadFacts{
		CompanyName:  "Acme SL",
		TaxID:        "B12345678",
		Email:        "info@acme.example",
		ContactCount: 1,
		Verification: state,
	})

	if r.ReadyForAdminHandoff || r.ReadyForConversion {
		t.Error("one unchecked flag must block both readiness levels")
	}
	if len(r.MissingFields) != 1 || r.MissingFields[0] != MissingCIFValidat {
		t.Errorf("expected only %q missing, got %v", MissingCIFValidat, r.MissingFields)
	}
}
