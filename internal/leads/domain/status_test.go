package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusNew, StatusQualifying, true},
		{StatusNew, StatusPendingAdmin, true},
		{StatusNew, StatusWon, true},
		{StatusNew, StatusLost, true},
		{StatusQualifying, StatusPendingAdmin, true},
		{StatusQualifying, StatusWon, true},
		{StatusQualifying, StatusLost, true},
		{StatusPendingAdmin, StatusWon, true},
		{StatusPendingAdmin, StatusLost, true},

		// terminal states accept nothing
		{StatusWon, StatusLost, false},
		{StatusWon, StatusQualifying, false},
		{StatusLost, StatusWon, false},
		{StatusLost, StatusNew, false},

		// no self-transition, no going backwards
		{StatusQualifying, StatusQualifying, false},
		{StatusPendingAdmin, StatusNew, false},
		{StatusPendingAdmin, StatusQualifying, false},
		{StatusQualifying, StatusNew, false},

		// unknown values never transition
		{Status("BOGUS"), StatusLost, false},
		{StatusNew, Status("BOGUS"), false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransitionReturnsConflict(t *testing.T) {
	if err := Transition(StatusWon, StatusLost); err == nil {
		t.Fatal("expected error transitioning out of WON")
	}
	if err := Transition(StatusQualifying, StatusPendingAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusQualifying, StatusPendingAdmin} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []Status{StatusWon, StatusLost} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
