package recommendations

import (
	"business-fundability-engine/internal/models"
)

// guidance is the canned advice attached to every recommendation in a category.
type guidance struct {
	title          string
	actionItems    []string
	timeToComplete string
	difficulty     models.Difficulty
	costTier       models.CostTier
}

var categoryGuidance = map[models.Category]guidance{
	models.CategoryBusinessFoundation: {
		title: "Establish a credible business foundation",
		actionItems: []string{
			"Obtain a federal EIN for the business",
			"Set up a dedicated business address and phone line",
			"Use a professional email on your own domain",
			"List the business with national directory assistance",
		},
		timeToComplete: "1-2 weeks",
		difficulty:     models.DifficultyEasy,
		costTier:       models.CostLow,
	},
	models.CategoryLegalStructure: {
		title: "Formalize your legal structure",
		actionItems: []string{
			"Register the business as an LLC or corporation",
			"File annual reports to stay in good standing with the state",
			"Appoint a registered agent",
			"Renew all required licenses and permits",
		},
		timeToComplete: "2-4 weeks",
		difficulty:     models.DifficultyMedium,
		costTier:       models.CostMedium,
	},
	models.CategoryBankingFinance: {
		title: "Build a stronger banking relationship",
		actionItems: []string{
			"Open a business checking account in the legal business name",
			"Run all business income and expenses through that account",
			"Maintain an average daily balance above $10,000",
			"Avoid overdrafts and returned items",
		},
		timeToComplete: "3-6 months",
		difficulty:     models.DifficultyMedium,
		costTier:       models.CostFree,
	},
	models.CategoryBusinessCredit: {
		title: "Build your business credit profile",
		actionItems: []string{
			"Register for a D-U-N-S number with Dun & Bradstreet",
			"Open at least three vendor trade lines that report to the bureaus",
			"Pay every vendor on or before the due date",
			"Monitor Experian and Equifax business reports for errors",
		},
		timeToComplete: "3-6 months",
		difficulty:     models.DifficultyMedium,
		costTier:       models.CostLow,
	},
	models.CategoryMarketingPresence: {
		title: "Strengthen your online presence",
		actionItems: []string{
			"Publish a professional website on your business domain",
			"Claim and verify your Google Business Profile",
			"Keep name, address and phone consistent across listings",
			"Ask satisfied customers for online reviews",
		},
		timeToComplete: "2-4 weeks",
		difficulty:     models.DifficultyEasy,
		costTier:       models.CostLow,
	},
	models.CategoryOperationalExcellence: {
		title: "Tighten business operations",
		actionItems: []string{
			"Move bookkeeping into dedicated accounting software",
			"Carry general liability insurance in the business name",
			"Use written contracts with customers",
			"Document your key operating procedures",
		},
		timeToComplete: "1-2 months",
		difficulty:     models.DifficultyMedium,
		costTier:       models.CostMedium,
	},
	models.CategoryDocumentation: {
		title: "Prepare a lender-ready document package",
		actionItems: []string{
			"Gather two years of business tax returns",
			"Prepare a current profit and loss statement and balance sheet",
			"Download the last six months of bank statements",
			"Write a schedule of all outstanding business debt",
		},
		timeToComplete: "1-2 weeks",
		difficulty:     models.DifficultyEasy,
		costTier:       models.CostFree,
	},
	models.CategoryFinancialHealth: {
		title: "Improve financial health",
		actionItems: []string{
			"Build cash reserves covering three months of expenses",
			"Reduce existing debt to improve debt service coverage",
			"Review pricing and costs to improve profitability",
			"Bring the owner's personal credit score above 680",
		},
		timeToComplete: "6-12 months",
		difficulty:     models.DifficultyHard,
		costTier:       models.CostMedium,
	},
}

// Category recommendations are emitted below passThreshold percent.
const (
	passThreshold     = 70.0
	highThreshold     = 50.0
	criticalThreshold = 30.0

	defaultMaxCriterionItems = 5
)

func priorityFor(percentage float64) models.Priority {
	switch {
	case percentage < criticalThreshold:
		return models.PriorityCritical
	case percentage < highThreshold:
		return models.PriorityHigh
	case percentage < passThreshold:
		return models.PriorityMedium
	}
	return models.PriorityLow
}
