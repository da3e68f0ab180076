// Package models defines the data structures for the fundability engine.
package models

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Configuration errors
var (
	ErrUnknownCategory       = errors.New("unknown assessment category")
	ErrMissingCategoryWeight = errors.New("category has no weight configured")
	ErrInvalidCriterion      = errors.New("invalid criterion definition")
)

// Input errors
var (
	ErrInvalidCreditScore      = errors.New("credit score must be between 300 and 850")
	ErrInvalidTimeInBusiness   = errors.New("time in business cannot be negative")
	ErrInvalidRevenue          = errors.New("annual revenue cannot be negative")
	ErrInvalidFundingAmount    = errors.New("funding amount cannot be negative")
	ErrInvalidFundabilityScore = errors.New("fundability score must be between 0 and 100")
	ErrUnknownOpportunityKind  = errors.New("unknown opportunity kind")
	ErrEmptyBusinessID         = errors.New("business_id cannot be empty")
)

// Industries with adjustment tables.
const (
	IndustryTechnology           = "technology"
	IndustryRetail               = "retail"
	IndustryRestaurant           = "restaurant"
	IndustryConstruction         = "construction"
	IndustryHealthcare           = "healthcare"
	IndustryProfessionalServices = "professional_services"
	IndustryManufacturing        = "manufacturing"
	IndustryTransportation       = "transportation"
)

// Business types with dynamic category weighting.
const (
	BusinessTypeStartup     = "startup"
	BusinessTypeGrowing     = "growing"
	BusinessTypeEstablished = "established"
)

var industryAliases = map[string]string{
	"tech":                   IndustryTechnology,
	"software":               IndustryTechnology,
	"saas":                   IndustryTechnology,
	"it":                     IndustryTechnology,
	"information_technology": IndustryTechnology,
	"ecommerce":              IndustryRetail,
	"e_commerce":             IndustryRetail,
	"retail_trade":           IndustryRetail,
	"restaurants":            IndustryRestaurant,
	"food_service":           IndustryRestaurant,
	"food_and_beverage":      IndustryRestaurant,
	"food_beverage":          IndustryRestaurant,
	"hospitality":            IndustryRestaurant,
	"contractor":             IndustryConstruction,
	"contracting":            IndustryConstruction,
	"medical":                IndustryHealthcare,
	"health_care":            IndustryHealthcare,
	"consulting":             IndustryProfessionalServices,
	"professional":           IndustryProfessionalServices,
	"services":               IndustryProfessionalServices,
	"legal":                  IndustryProfessionalServices,
	"accounting":             IndustryProfessionalServices,
	"industrial":             IndustryManufacturing,
	"trucking":               IndustryTransportation,
	"logistics":              IndustryTransportation,
	"freight":                IndustryTransportation,
}

var businessTypeAliases = map[string]string{
	"start_up":     BusinessTypeStartup,
	"new":          BusinessTypeStartup,
	"new_business": BusinessTypeStartup,
	"growth":       BusinessTypeGrowing,
	"expanding":    BusinessTypeGrowing,
	"scaling":      BusinessTypeGrowing,
	"mature":       BusinessTypeEstablished,
	"stable":       BusinessTypeEstablished,
}

// NormalizeIndustry converts free-form industry input to its canonical key.
// Unrecognized industries are returned normalized so they can still be compared.
func NormalizeIndustry(industry string) string {
	key := normalizeKey(industry)
	if mapped, ok := industryAliases[key]; ok {
		return mapped
	}
	return key
}

// NormalizeBusinessType converts free-form business type input to its canonical key.
func NormalizeBusinessType(businessType string) string {
	key := normalizeKey(businessType)
	if mapped, ok := businessTypeAliases[key]; ok {
		return mapped
	}
	return key
}

func normalizeKey(s string) string {
	return slugify(norm.NFKC.String(strings.TrimSpace(s)))
}
