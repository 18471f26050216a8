package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var passwordShape = regexp.MustCompile(`^[A-Z]{3}\d{6}[A-Z0-9]{2}$`)

func TestGeneratePasswordShape(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	names := []string{
		"Acme Corp",
		"acme corp",
		"A",
		"",
		"42 S.L.",
		"ñ",
		"  a-b  ",
		"Ö GmbH",
	}
	for _, name := range names {
		got := GeneratePassword(name, now)
		if !passwordShape.MatchString(got) {
			t.Errorf("GeneratePassword(%q) = %q, does not match shape", name, got)
		}
	}
}

func TestGeneratePasswordPrefixAndDate(t *testing.T) {
	now := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	got := GeneratePassword("Acme Corp", now)
	if !strings.HasPrefix(got, "ACM050324") {
		t.Errorf("expected prefix ACM050324, got %q", got)
	}
	if len(got) != 11 {
		t.Errorf("expected length 11, got %d (%q)", len(got), got)
	}
}

func TestGeneratePasswordShortNamePadded(t *testing.T) {
	now := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	got := GeneratePassword("7x", now)
	if !strings.HasPrefix(got, "XXX311223") {
		t.Errorf("expected padded prefix XXX311223, got %q", got)
	}
}

func TestGeneratePasswordSkipsNonAlpha(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	got := GeneratePassword("1a-2b 3c4d", now)
	if !strings.HasPrefix(got, "ABC020124") {
		t.Errorf("expected prefix ABC020124, got %q", got)
	}
}
