package scoring

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"business-fundability-engine/internal/models"
)

//go:embed criteria.yaml
var defaultCriteriaYAML []byte

type criteriaFile struct {
	Criteria []models.Criterion `yaml:"criteria"`
}

// LoadCriteria parses a criteria catalog document.
func LoadCriteria(data []byte) ([]models.Criterion, error) {
	var file criteriaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse criteria catalog: %w", err)
	}
	if err := validateCriteria(file.Criteria); err != nil {
		return nil, err
	}
	return file.Criteria, nil
}

// DefaultCriteria returns the built-in criteria catalog.
func DefaultCriteria() ([]models.Criterion, error) {
	return LoadCriteria(defaultCriteriaYAML)
}

func validateCriteria(criteria []models.Criterion) error {
	seen := make(map[string]struct{}, len(criteria))
	for i, c := range criteria {
		if c.ID == "" {
			return fmt.Errorf("criterion %d: missing id: %w", i, models.ErrInvalidCriterion)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("criterion %s: duplicate id: %w", c.ID, models.ErrInvalidCriterion)
		}
		seen[c.ID] = struct{}{}
		if !c.Category.IsValid() {
			return fmt.Errorf("criterion %s: %q: %w", c.ID, c.Category, models.ErrUnknownCategory)
		}
		if c.Points <= 0 {
			return fmt.Errorf("criterion %s: points must be positive: %w", c.ID, models.ErrInvalidCriterion)
		}
	}
	return nil
}
