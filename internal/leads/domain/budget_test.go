package domain

import (
	"testing"
	"time"
)

func TestBudgetStateFor(t *testing.T) {
	sentAt := time.Now()

	cases := []struct {
		name     string
		extras   int
		approval BudgetApproval
		want     BudgetState
	}{
		{"no extras", 0, BudgetApproval{}, BudgetNotRequired},
		{"no extras but sent anyway", 0, BudgetApproval{Sent: true, SentAt: &sentAt}, BudgetNotRequired},
		{"extras not sent", 2, BudgetApproval{}, BudgetPending},
		{"extras sent", 1, BudgetApproval{Sent: true, SentAt: &sentAt}, BudgetSent},
	}

	for _, tc := range cases {
		if got := BudgetStateFor(tc.extras, tc.approval); got != tc.want {
			t.Errorf("%s: BudgetStateFor = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestBlocksConversion(t *testing.T) {
	if !BudgetPending.BlocksConversion() {
		t.Error("PENDING must block conversion")
	}
	if BudgetNotRequired.BlocksConversion() {
		t.Error("NOT_REQUIRED must not block conversion")
	}
	if BudgetSent.BlocksConversion() {
		t.Error("SENT must not block conversion")
	}
}
