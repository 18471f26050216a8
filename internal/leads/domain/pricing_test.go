package domain

import (
	"testing"

	"github.com/google/uuid"
)

func testCatalog() ExtraCatalog {
	return ExtraCatalog{
		"a": {ID: "a", Name: "Extra A", PriceCents: 5000},
		"b": {ID: "b", Name: "Extra B", PriceCents: 2500},
		"c": {ID: "c", Name: "Extra C", PriceCents: 10000},
	}
}

func TestPriceBasePlusExtras(t *testing.T) {
	plan := &Plan{ID: uuid.New(), Name: "Pro", BasePriceCents: 20000, MaxTeamMembers: 3}

	got := Price(plan, []string{"a"}, testCatalog())
	if got.BaseCents != 20000 || got.ExtrasCents != 5000 || got.TotalCents != 25000 {
		t.Errorf("unexpected breakdown: %+v", got)
	}
}

func TestPriceOrderIndependent(t *testing.T) {
	plan := &Plan{BasePriceCents: 20000}
	catalog := testCatalog()

	first := Price(plan, []string{"a", "b", "c"}, catalog)
	second := Price(plan, []string{"c", "a", "b"}, catalog)
	if first != second {
		t.Errorf("price must be order independent: %+v vs %+v", first, second)
	}
	if first.TotalCents != 37500 {
		t.Errorf("expected total 37500, got %d", first.TotalCents)
	}
}

func TestPriceDuplicatesCountOnce(t *testing.T) {
	got := Price(&Plan{BasePriceCents: 1000}, []string{"a", "a", "a"}, testCatalog())
	if got.ExtrasCents != 5000 {
		t.Errorf("duplicate extras must count once, got %d", got.ExtrasCents)
	}
}

func TestPriceUnknownExtraIgnored(t *testing.T) {
	got := Price(&Plan{BasePriceCents: 1000}, []string{"zz"}, testCatalog())
	if got.TotalCents != 1000 {
		t.Errorf("unknown extra should contribute nothing, got total %d", got.TotalCents)
	}
}

func TestPriceNilPlan(t *testing.T) {
	got := Price(nil, []string{"b"}, testCatalog())
	if got.BaseCents != 0 || got.TotalCents != 2500 {
		t.Errorf("nil plan should price base 0: %+v", got)
	}
}

func TestCapacity(t *testing.T) {
	cases := []struct {
		name string
		plan *Plan
		want int
	}{
		{"no plan", nil, 1},
		{"plan with seats", &Plan{MaxTeamMembers: 5}, 5},
		{"plan without seat limit set", &Plan{MaxTeamMembers: 0}, 1},
	}
	for _, tc := range cases {
		if got := Capacity(tc.plan); got != tc.want {
			t.Errorf("%s: Capacity = %d, want %d", tc.name, got, tc.want)
		}
	}
}
