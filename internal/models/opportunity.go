// Package models defines the data structures for the fundability engine.
package models

import (
	"errors"
	"fmt"
	"time"
)

// OpportunityKind selects which marketplace catalog to match against.
type OpportunityKind string

const (
	OpportunityKindFunding   OpportunityKind = "funding"
	OpportunityKindTradeLine OpportunityKind = "tradeline"
)

// ParseOpportunityKind normalizes user input such as "trade_line" or "Funding".
func ParseOpportunityKind(s string) (OpportunityKind, error) {
	switch slugify(s) {
	case "funding", "loan", "loans":
		return OpportunityKindFunding, nil
	case "tradeline", "trade_line", "trade_lines", "tradelines":
		return OpportunityKindTradeLine, nil
	}
	return OpportunityKind(s), ErrUnknownOpportunityKind
}

// FundingType is the product family of a funding opportunity.
type FundingType string

const (
	FundingTypeSBA             FundingType = "sba_loan"
	FundingTypeTermLoan        FundingType = "term_loan"
	FundingTypeLineOfCredit    FundingType = "line_of_credit"
	FundingTypeEquipment       FundingType = "equipment_financing"
	FundingTypeInvoiceFactor   FundingType = "invoice_factoring"
	FundingTypeMerchantAdvance FundingType = "merchant_cash_advance"
	FundingTypeCreditCard      FundingType = "business_credit_card"
	FundingTypeCommercialRE    FundingType = "commercial_real_estate"
)

// FundingOpportunity is a lending product in the marketplace catalog.
type FundingOpportunity struct {
	ID                      string      `json:"id" db:"id"`
	LenderName              string      `json:"lender_name" db:"lender_name"`
	ProductName             string      `json:"product_name" db:"product_name"`
	FundingType             FundingType `json:"funding_type" db:"funding_type"`
	AmountMin               float64     `json:"amount_min" db:"amount_min"`
	AmountMax               float64     `json:"amount_max" db:"amount_max"`
	TermMinMonths           int         `json:"term_min_months" db:"term_min_months"`
	TermMaxMonths           int         `json:"term_max_months" db:"term_max_months"`
	RateMin                 float64     `json:"rate_min" db:"rate_min"`
	RateMax                 float64     `json:"rate_max" db:"rate_max"`
	MinCreditScore          int         `json:"min_credit_score" db:"min_credit_score"`
	MinTimeInBusinessMonths int         `json:"min_time_in_business_months" db:"min_time_in_business_months"`
	MinAnnualRevenue        float64     `json:"min_annual_revenue" db:"min_annual_revenue"`
	RestrictedIndustries    []string    `json:"restricted_industries,omitempty" db:"restricted_industries"`
	OriginationFeePercent   float64     `json:"origination_fee_percent" db:"origination_fee_percent"`
	Features                []string    `json:"features,omitempty" db:"features"`
	ApprovalTime            string      `json:"approval_time,omitempty" db:"approval_time"`
	IsActive                bool        `json:"is_active" db:"is_active"`
	CreatedAt               time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}

// Restricts reports whether the lender declines the given industry.
func (o *FundingOpportunity) Restricts(industry string) bool {
	normalized := NormalizeIndustry(industry)
	for _, r := range o.RestrictedIndustries {
		if NormalizeIndustry(r) == normalized {
			return true
		}
	}
	return false
}

// Bureau is a business credit reporting agency.
type Bureau string

const (
	BureauDunBradstreet Bureau = "dun_bradstreet"
	BureauExperian      Bureau = "experian"
	BureauEquifax       Bureau = "equifax"
)

// CreditImpact is how much a trade line helps build business credit.
type CreditImpact string

const (
	CreditImpactHigh   CreditImpact = "high"
	CreditImpactMedium CreditImpact = "medium"
	CreditImpactLow    CreditImpact = "low"
)

// TradeLineOpportunity is a vendor credit account in the marketplace catalog.
type TradeLineOpportunity struct {
	ID                        string       `json:"id" db:"id"`
	VendorName                string       `json:"vendor_name" db:"vendor_name"`
	ProductCategory           string       `json:"product_category" db:"product_category"`
	Terms                     string       `json:"terms" db:"terms"`
	CreditLimitMin            float64      `json:"credit_limit_min" db:"credit_limit_min"`
	CreditLimitMax            float64      `json:"credit_limit_max" db:"credit_limit_max"`
	ReportsTo                 []Bureau     `json:"reports_to" db:"reports_to"`
	CreditBuildingImpact      CreditImpact `json:"credit_building_impact" db:"credit_building_impact"`
	MinCreditScore            int          `json:"min_credit_score" db:"min_credit_score"`
	MinTimeInBusinessMonths   int          `json:"min_time_in_business_months" db:"min_time_in_business_months"`
	MinAnnualRevenue          float64      `json:"min_annual_revenue" db:"min_annual_revenue"`
	SetupFee                  float64      `json:"setup_fee" db:"setup_fee"`
	AnnualFee                 float64      `json:"annual_fee" db:"annual_fee"`
	RequiresPersonalGuarantee bool         `json:"requires_personal_guarantee" db:"requires_personal_guarantee"`
	Features                  []string     `json:"features,omitempty" db:"features"`
	IsActive                  bool         `json:"is_active" db:"is_active"`
	CreatedAt                 time.Time    `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt                 time.Time    `json:"updated_at,omitempty" db:"updated_at"`
}

// Catalog groups the marketplace listings matched against a profile.
type Catalog struct {
	Funding    []FundingOpportunity   `json:"funding"`
	TradeLines []TradeLineOpportunity `json:"trade_lines"`
}

// RiskLevel classifies how risky an application is likely to be.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MatchAnalysis is the explained match between a profile and one opportunity.
type MatchAnalysis struct {
	Score           int       `json:"score"`
	Strengths       []string  `json:"strengths"`
	Concerns        []string  `json:"concerns"`
	Recommendations []string  `json:"recommendations"`
	NextSteps       []string  `json:"next_steps"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

// RankedMatch is one opportunity in a ranked marketplace result.
type RankedMatch struct {
	Rank             int                   `json:"rank"`
	Kind             OpportunityKind       `json:"kind"`
	OpportunityID    string                `json:"opportunity_id"`
	Name             string                `json:"name"`
	Provider         string                `json:"provider"`
	EligibilityScore int                   `json:"eligibility_score"`
	Analysis         *MatchAnalysis        `json:"analysis,omitempty"`
	Funding          *FundingOpportunity   `json:"funding,omitempty"`
	TradeLine        *TradeLineOpportunity `json:"trade_line,omitempty"`
}

// MatchResult is the marketplace response for one profile and kind.
type MatchResult struct {
	Kind    OpportunityKind `json:"kind"`
	Demo    bool            `json:"demo"`
	Profile UserProfile     `json:"profile"`
	Matches []RankedMatch   `json:"matches"`
}

// ErrInvalidOpportunity is returned for a catalog row that cannot be listed.
var ErrInvalidOpportunity = errors.New("invalid opportunity")

var fundingTypeAliases = map[string]FundingType{
	"sba":                    FundingTypeSBA,
	"sba_7a":                 FundingTypeSBA,
	"term":                   FundingTypeTermLoan,
	"loan":                   FundingTypeTermLoan,
	"loc":                    FundingTypeLineOfCredit,
	"credit_line":            FundingTypeLineOfCredit,
	"equipment":              FundingTypeEquipment,
	"factoring":              FundingTypeInvoiceFactor,
	"invoice_financing":      FundingTypeInvoiceFactor,
	"mca":                    FundingTypeMerchantAdvance,
	"cash_advance":           FundingTypeMerchantAdvance,
	"credit_card":            FundingTypeCreditCard,
	"card":                   FundingTypeCreditCard,
	"cre":                    FundingTypeCommercialRE,
	"real_estate":            FundingTypeCommercialRE,
	"commercial_mortgage":    FundingTypeCommercialRE,
	"commercial_real_estate": FundingTypeCommercialRE,
}

// NormalizeFundingType maps free-form input such as "LOC" or "SBA 7a" to a FundingType.
func NormalizeFundingType(s string) FundingType {
	key := slugify(s)
	if ft, ok := fundingTypeAliases[key]; ok {
		return ft
	}
	return FundingType(key)
}

// OpportunityID derives a stable catalog ID from the provider and product names.
func OpportunityID(provider, product string) string {
	return slugify(provider + " " + product)
}

// ValidateFundingOpportunity checks a catalog entry before it is stored.
func ValidateFundingOpportunity(o *FundingOpportunity) error {
	if o.LenderName == "" || o.ProductName == "" {
		return fmt.Errorf("%w: lender and product name are required", ErrInvalidOpportunity)
	}
	if o.AmountMin < 0 || (o.AmountMax > 0 && o.AmountMax < o.AmountMin) {
		return fmt.Errorf("%w: amount range %.0f-%.0f", ErrInvalidOpportunity, o.AmountMin, o.AmountMax)
	}
	if o.MinCreditScore != 0 && (o.MinCreditScore < 300 || o.MinCreditScore > 850) {
		return fmt.Errorf("%w: %w", ErrInvalidOpportunity, ErrInvalidCreditScore)
	}
	if o.MinTimeInBusinessMonths < 0 || o.MinAnnualRevenue < 0 {
		return fmt.Errorf("%w: minimums cannot be negative", ErrInvalidOpportunity)
	}
	return nil
}

// StoredMatch is one ranked opportunity saved for a business.
type StoredMatch struct {
	ID               int64           `json:"id" db:"id"`
	BusinessID       string          `json:"business_id" db:"business_id"`
	Kind             OpportunityKind `json:"kind" db:"kind"`
	OpportunityID    string          `json:"opportunity_id" db:"opportunity_id"`
	Rank             int             `json:"rank" db:"rank"`
	EligibilityScore int             `json:"eligibility_score" db:"eligibility_score"`
	RiskLevel        RiskLevel       `json:"risk_level,omitempty" db:"risk_level"`
	Analysis         *MatchAnalysis  `json:"analysis,omitempty" db:"analysis"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	ImportID      string   `json:"import_id"`
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors"`
}
