package ontology

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML (or JSON, which is valid YAML) ontology table from path.
func Load(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ontology file %q: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing ontology file %q: %w", path, err)
	}

	store, err := NewStore(def, logger)
	if err != nil {
		return nil, fmt.Errorf("building ontology from %q: %w", path, err)
	}
	return store, nil
}
