package service

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"crm_portal_backend/internal/leads/domain"
)

// extrasFile mirrors the on-disk YAML catalog of extra services.
type extrasFile struct {
	ExtraServices []extraEntry `yaml:"extraServices"`
}

type extraEntry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	PriceCents int64  `yaml:"priceCents"`
}

// LoadExtraCatalog reads the fixed extra-services catalog from a YAML file.
// The catalog is small and static; it is loaded once at startup.
func LoadExtraCatalog(path string) (domain.ExtraCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extra services catalog: %w", err)
	}

	var file extrasFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse extra services catalog: %w", err)
	}

	catalog := make(domain.ExtraCatalog, len(file.ExtraServices))
	for _, entry := range file.ExtraServices {
		if entry.ID == "" {
			return nil, fmt.Errorf("extra service with empty id in %s", path)
		}
		if _, dup := catalog[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate extra service id %q in %s", entry.ID, path)
		}
		if entry.PriceCents < 0 {
			return nil, fmt.Errorf("extra service %q has negative price", entry.ID)
		}
		catalog[entry.ID] = domain.ExtraService{
			ID:         entry.ID,
			Name:       entry.Name,
			PriceCents: entry.PriceCents,
		}
	}
	return catalog, nil
}

// SortedExtras returns the catalog entries ordered by id for stable listings.
func SortedExtras(catalog domain.ExtraCatalog) []domain.ExtraService {
	out := make([]domain.ExtraService, 0, len(catalog))
	for _, extra := range catalog {
		out = append(out, extra)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
