package matcher

import (
	"business-fundability-engine/internal/models"
)

// DemoProfile is the placeholder profile used when a caller has none, so
// anonymous visitors can still preview the marketplace.
func DemoProfile() models.UserProfile {
	return models.UserProfile{
		BusinessID:           "demo",
		CreditScore:          680,
		TimeInBusinessMonths: 24,
		AnnualRevenue:        250000,
		Industry:             models.IndustryProfessionalServices,
		BusinessStructure:    models.BusinessStructureLLC,
		FundingNeed: models.FundingNeed{
			Amount:   50000,
			Purpose:  "working capital",
			Timeline: "3 months",
		},
		FundabilityScore: 65,
	}
}

// DefaultCatalog returns the built-in marketplace listings.
func DefaultCatalog() models.Catalog {
	return models.Catalog{
		Funding:    defaultFunding(),
		TradeLines: defaultTradeLines(),
	}
}

func defaultFunding() []models.FundingOpportunity {
	return []models.FundingOpportunity{
		{
			ID:                      "sba-7a-live-oak",
			LenderName:              "Live Oak Bank",
			ProductName:             "SBA 7(a) Loan",
			FundingType:             models.FundingTypeSBA,
			AmountMin:               50000,
			AmountMax:               5000000,
			TermMinMonths:           60,
			TermMaxMonths:           300,
			RateMin:                 10.5,
			RateMax:                 13.5,
			MinCreditScore:          680,
			MinTimeInBusinessMonths: 24,
			MinAnnualRevenue:        250000,
			RestrictedIndustries:    []string{"gambling", "adult_entertainment"},
			OriginationFeePercent:   3.5,
			Features:                []string{"Government guaranteed", "Long repayment terms", "Low rates"},
			ApprovalTime:            "30-90 days",
			IsActive:                true,
		},
		{
			ID:                      "bluevine-loc",
			LenderName:              "Bluevine",
			ProductName:             "Business Line of Credit",
			FundingType:             models.FundingTypeLineOfCredit,
			AmountMin:               6000,
			AmountMax:               250000,
			TermMinMonths:           6,
			TermMaxMonths:           12,
			RateMin:                 7.8,
			RateMax:                 30,
			MinCreditScore:          625,
			MinTimeInBusinessMonths: 12,
			MinAnnualRevenue:        120000,
			Features:                []string{"Draw as needed", "Pay interest only on what you use"},
			ApprovalTime:            "24 hours",
			IsActive:                true,
		},
		{
			ID:                      "ondeck-term",
			LenderName:              "OnDeck",
			ProductName:             "Short-Term Loan",
			FundingType:             models.FundingTypeTermLoan,
			AmountMin:               5000,
			AmountMax:               250000,
			TermMinMonths:           12,
			TermMaxMonths:           24,
			RateMin:                 29.9,
			RateMax:                 97.3,
			MinCreditScore:          625,
			MinTimeInBusinessMonths: 12,
			MinAnnualRevenue:        100000,
			OriginationFeePercent:   4,
			Features:                []string{"Same-day funding", "Reports to business credit bureaus"},
			ApprovalTime:            "1-2 days",
			IsActive:                true,
		},
		{
			ID:                      "balboa-equipment",
			LenderName:              "Balboa Capital",
			ProductName:             "Equipment Financing",
			FundingType:             models.FundingTypeEquipment,
			AmountMin:               5000,
			AmountMax:               500000,
			TermMinMonths:           12,
			TermMaxMonths:           60,
			RateMin:                 7,
			RateMax:                 25,
			MinCreditScore:          620,
			MinTimeInBusinessMonths: 12,
			Features:                []string{"Equipment serves as collateral", "Section 179 eligible"},
			ApprovalTime:            "1-3 days",
			IsActive:                true,
		},
		{
			ID:                      "fundbox-invoice",
			LenderName:              "Fundbox",
			ProductName:             "Invoice Factoring",
			FundingType:             models.FundingTypeInvoiceFactor,
			AmountMin:               1000,
			AmountMax:               150000,
			TermMinMonths:           3,
			TermMaxMonths:           6,
			RateMin:                 4.66,
			RateMax:                 8.99,
			MinCreditScore:          600,
			MinTimeInBusinessMonths: 3,
			MinAnnualRevenue:        30000,
			Features:                []string{"Advance on unpaid invoices", "No collateral beyond receivables"},
			ApprovalTime:            "Same day",
			IsActive:                true,
		},
		{
			ID:                      "rapid-finance-mca",
			LenderName:              "Rapid Finance",
			ProductName:             "Merchant Cash Advance",
			FundingType:             models.FundingTypeMerchantAdvance,
			AmountMin:               5000,
			AmountMax:               500000,
			TermMinMonths:           3,
			TermMaxMonths:           18,
			RateMin:                 15,
			RateMax:                 50,
			MinCreditScore:          550,
			MinTimeInBusinessMonths: 6,
			MinAnnualRevenue:        60000,
			Features:                []string{"Repaid from daily card sales", "Fast funding"},
			ApprovalTime:            "24 hours",
			IsActive:                true,
		},
		{
			ID:             "amex-business-card",
			LenderName:     "American Express",
			ProductName:    "Business Gold Card",
			FundingType:    models.FundingTypeCreditCard,
			AmountMin:      1000,
			AmountMax:      50000,
			RateMin:        18.49,
			RateMax:        27.49,
			MinCreditScore: 690,
			Features:       []string{"Rewards on business spend", "Employee cards"},
			ApprovalTime:   "Instant",
			IsActive:       true,
		},
		{
			ID:                      "main-street-cre",
			LenderName:              "Main Street Commercial Bank",
			ProductName:             "Commercial Real Estate Loan",
			FundingType:             models.FundingTypeCommercialRE,
			AmountMin:               250000,
			AmountMax:               5000000,
			TermMinMonths:           60,
			TermMaxMonths:           300,
			RateMin:                 6.5,
			RateMax:                 9.5,
			MinCreditScore:          700,
			MinTimeInBusinessMonths: 36,
			MinAnnualRevenue:        1000000,
			OriginationFeePercent:   1,
			Features:                []string{"Purchase or refinance owner-occupied property"},
			ApprovalTime:            "45-60 days",
			IsActive:                true,
		},
	}
}

func defaultTradeLines() []models.TradeLineOpportunity {
	return []models.TradeLineOpportunity{
		{
			ID:                   "uline-net30",
			VendorName:           "Uline",
			ProductCategory:      "Shipping supplies",
			Terms:                "Net 30",
			CreditLimitMin:       500,
			CreditLimitMax:       5000,
			ReportsTo:            []models.Bureau{models.BureauDunBradstreet, models.BureauExperian},
			CreditBuildingImpact: models.CreditImpactHigh,
			Features:             []string{"No personal guarantee"},
			IsActive:             true,
		},
		{
			ID:                   "quill-net30",
			VendorName:           "Quill",
			ProductCategory:      "Office supplies",
			Terms:                "Net 30",
			CreditLimitMin:       250,
			CreditLimitMax:       2500,
			ReportsTo:            []models.Bureau{models.BureauDunBradstreet},
			CreditBuildingImpact: models.CreditImpactMedium,
			Features:             []string{"Approval after first orders"},
			IsActive:             true,
		},
		{
			ID:                      "grainger-net30",
			VendorName:              "Grainger",
			ProductCategory:         "Industrial supplies",
			Terms:                   "Net 30",
			CreditLimitMin:          1000,
			CreditLimitMax:          10000,
			ReportsTo:               []models.Bureau{models.BureauDunBradstreet, models.BureauExperian},
			CreditBuildingImpact:    models.CreditImpactHigh,
			MinTimeInBusinessMonths: 6,
			Features:                []string{"Higher limits for established accounts"},
			IsActive:                true,
		},
		{
			ID:                   "crown-office-net30",
			VendorName:           "Crown Office Supplies",
			ProductCategory:      "Office supplies",
			Terms:                "Net 30",
			CreditLimitMin:       500,
			CreditLimitMax:       2500,
			ReportsTo:            []models.Bureau{models.BureauDunBradstreet, models.BureauExperian, models.BureauEquifax},
			CreditBuildingImpact: models.CreditImpactHigh,
			AnnualFee:            99,
			Features:             []string{"Reports to all three bureaus"},
			IsActive:             true,
		},
		{
			ID:                   "summa-net30",
			VendorName:           "Summa Office Supplies",
			ProductCategory:      "Office supplies",
			Terms:                "Net 30",
			CreditLimitMin:       500,
			CreditLimitMax:       5000,
			ReportsTo:            []models.Bureau{models.BureauDunBradstreet, models.BureauExperian, models.BureauEquifax},
			CreditBuildingImpact: models.CreditImpactHigh,
			SetupFee:             75,
			Features:             []string{"Monthly reporting"},
			IsActive:             true,
		},
		{
			ID:                        "home-depot-commercial",
			VendorName:                "Home Depot Commercial",
			ProductCategory:           "Building materials",
			Terms:                     "Revolving",
			CreditLimitMin:            1000,
			CreditLimitMax:            25000,
			ReportsTo:                 []models.Bureau{models.BureauExperian, models.BureauEquifax},
			CreditBuildingImpact:      models.CreditImpactMedium,
			MinCreditScore:            650,
			MinTimeInBusinessMonths:   24,
			RequiresPersonalGuarantee: true,
			Features:                  []string{"Volume pricing", "Revolving account"},
			IsActive:                  true,
		},
		{
			ID:                        "shell-fleet",
			VendorName:                "Shell Fleet Card",
			ProductCategory:           "Fuel",
			Terms:                     "Monthly statement",
			CreditLimitMin:            500,
			CreditLimitMax:            10000,
			ReportsTo:                 []models.Bureau{models.BureauDunBradstreet, models.BureauExperian},
			CreditBuildingImpact:      models.CreditImpactMedium,
			MinCreditScore:            600,
			MinTimeInBusinessMonths:   12,
			RequiresPersonalGuarantee: true,
			Features:                  []string{"Fuel discounts", "Driver controls"},
			IsActive:                  true,
		},
		{
			ID:                   "amazon-business-terms",
			VendorName:           "Amazon Business",
			ProductCategory:      "General merchandise",
			Terms:                "Net 55",
			CreditLimitMin:       1000,
			CreditLimitMax:       50000,
			CreditBuildingImpact: models.CreditImpactLow,
			Features:             []string{"Pay by invoice"},
			IsActive:             true,
		},
	}
}
