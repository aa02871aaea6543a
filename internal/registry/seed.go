package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Definitions []Definition `yaml:"definitions"`
}

// LoadDefinitions parses a YAML definitions file and validates every entry.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions file: %w", err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions parses YAML definition bytes.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	seen := make(map[string]bool, len(f.Definitions))
	for _, def := range f.Definitions {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidDefinition, def.Name)
		}
		seen[def.Name] = true
	}
	return f.Definitions, nil
}

// Seed upserts the definitions from a YAML file into the registry.
func Seed(ctx context.Context, reg Registry, path string) (int, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if err := reg.Put(ctx, def); err != nil {
			return 0, fmt.Errorf("seed definition %q: %w", def.Name, err)
		}
	}
	return len(defs), nil
}
