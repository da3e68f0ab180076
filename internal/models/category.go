// Package models defines the data structures for the fundability engine.
package models

import (
	"encoding/json"
	"strings"
)

// Category is one of the fixed dimensions of business health.
type Category string

const (
	CategoryBusinessFoundation    Category = "Business Foundation"
	CategoryLegalStructure        Category = "Legal Structure"
	CategoryBankingFinance        Category = "Banking & Finance"
	CategoryBusinessCredit        Category = "Business Credit Profile"
	CategoryMarketingPresence     Category = "Marketing Presence"
	CategoryOperationalExcellence Category = "Operational Excellence"
	CategoryDocumentation         Category = "Documentation"
	CategoryFinancialHealth       Category = "Financial Health"
)

// AllCategories returns the eight categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryBusinessFoundation,
		CategoryLegalStructure,
		CategoryBankingFinance,
		CategoryBusinessCredit,
		CategoryMarketingPresence,
		CategoryOperationalExcellence,
		CategoryDocumentation,
		CategoryFinancialHealth,
	}
}

// IsValid checks if the category is one of the fixed categories.
func (c Category) IsValid() bool {
	for _, valid := range AllCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Slug returns the snake_case form used in IDs and metric labels.
func (c Category) Slug() string {
	return slugify(string(c))
}

// ParseCategory resolves a display name or slug to a Category.
func ParseCategory(s string) (Category, error) {
	wanted := slugify(s)
	for _, c := range AllCategories() {
		if c.Slug() == wanted {
			return c, nil
		}
	}
	return Category(s), ErrUnknownCategory
}

// UnmarshalJSON accepts a display name or a slug in any case. Unknown names
// are kept as sent so validation can reject them.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		*c = Category(s)
		return nil
	}
	*c = parsed
	return nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " ")
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}
