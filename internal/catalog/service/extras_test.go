package service

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extras.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExtraCatalog(t *testing.T) {
	path := writeCatalogFile(t, `
extraServices:
  - id: formacio
    name: "Formació inicial"
    priceCents: 15000
  - id: suport-premium
    name: "Suport premium"
    priceCents: 9900
`)

	catalog, err := LoadExtraCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 extras, got %d", len(catalog))
	}
	if catalog["formacio"].PriceCents != 15000 {
		t.Errorf("unexpected price: %d", catalog["formacio"].PriceCents)
	}

	extras := SortedExtras(catalog)
	if extras[0].ID != "formacio" || extras[1].ID != "suport-premium" {
		t.Errorf("expected sorted ids, got %v", extras)
	}
}

func TestLoadExtraCatalogRejectsDuplicates(t *testing.T) {
	path := writeCatalogFile(t, `
extraServices:
  - id: formacio
    priceCents: 100
  - id: formacio
    priceCents: 200
`)

	if _, err := LoadExtraCatalog(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadExtraCatalogRejectsNegativePrice(t *testing.T) {
	path := writeCatalogFile(t, `
extraServices:
  - id: formacio
    priceCents: -1
`)

	if _, err := LoadExtraCatalog(path); err == nil {
		t.Fatal("expected negative price error")
	}
}

func TestLoadExtraCatalogMissingFile(t *testing.T) {
	if _, err := LoadExtraCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
