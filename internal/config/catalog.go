package config

import (
	"fmt"
	"os"

	"fsa_tracker/internal/visit"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Activities visit.Catalog `yaml:"activities"`
}

// LoadCatalog reads the activity catalog from a YAML file. An empty path
// returns the default catalog.
func LoadCatalog(path string) (visit.Catalog, error) {
	if path == "" {
		return visit.DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read activity catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse activity catalog %s: %w", path, err)
	}
	if len(f.Activities) == 0 {
		return nil, fmt.Errorf("activity catalog %s lists no activities", path)
	}
	if err := f.Activities.Validate(); err != nil {
		return nil, fmt.Errorf("activity catalog %s: %w", path, err)
	}
	return f.Activities, nil
}
