// Package models defines the data structures for the fundability engine.
package models

import (
	"time"
)

// BusinessStructure is the legal form of the business.
type BusinessStructure string

const (
	BusinessStructureSoleProprietor BusinessStructure = "sole_proprietorship"
	BusinessStructurePartnership    BusinessStructure = "partnership"
	BusinessStructureLLC            BusinessStructure = "llc"
	BusinessStructureSCorp          BusinessStructure = "s_corp"
	BusinessStructureCCorp          BusinessStructure = "c_corp"
	BusinessStructureNonprofit      BusinessStructure = "nonprofit"
)

// FundingNeed describes what the business is looking to borrow.
type FundingNeed struct {
	Amount   float64 `json:"amount"`
	Purpose  string  `json:"purpose,omitempty"`
	Timeline string  `json:"timeline,omitempty"`
}

// UserProfile is the business profile used for marketplace matching.
// TimeInBusinessMonths is always in months.
type UserProfile struct {
	BusinessID           string            `json:"business_id,omitempty"`
	CreditScore          int               `json:"credit_score"`
	TimeInBusinessMonths int               `json:"time_in_business_months"`
	AnnualRevenue        float64           `json:"annual_revenue"`
	Industry             string            `json:"industry"`
	BusinessStructure    BusinessStructure `json:"business_structure"`
	FundingNeed          FundingNeed       `json:"funding_need"`
	ExistingTradeLines   []string          `json:"existing_trade_lines,omitempty"`
	FundabilityScore     float64           `json:"fundability_score"`
	UpdatedAt            time.Time         `json:"updated_at,omitempty"`
}

// HasTradeLine reports whether the profile already holds an account with the vendor.
func (p *UserProfile) HasTradeLine(vendor string) bool {
	wanted := slugify(vendor)
	for _, existing := range p.ExistingTradeLines {
		if slugify(existing) == wanted {
			return true
		}
	}
	return false
}

// ValidateProfile checks a caller-supplied profile. A zero credit score
// means no score on file and is accepted.
func ValidateProfile(p *UserProfile) error {
	if p.CreditScore != 0 && (p.CreditScore < 300 || p.CreditScore > 850) {
		return ErrInvalidCreditScore
	}
	if p.TimeInBusinessMonths < 0 {
		return ErrInvalidTimeInBusiness
	}
	if p.AnnualRevenue < 0 {
		return ErrInvalidRevenue
	}
	if p.FundingNeed.Amount < 0 {
		return ErrInvalidFundingAmount
	}
	if p.FundabilityScore < 0 || p.FundabilityScore > 100 {
		return ErrInvalidFundabilityScore
	}
	return nil
}
