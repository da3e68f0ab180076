package matcher

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"business-fundability-engine/internal/models"
)

// factor is one independent scoring band. The filter score only sums points;
// the analysis also collects the text.
type factor struct {
	points   int
	strength string
	concern  string
	advice   string
}

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("$%d", int64(v))
}

// Funding bands

func fundingCreditFactor(credit, min int) factor {
	switch {
	case min <= 0 || credit >= min+50:
		return factor{points: 30, strength: printer.Sprintf("Credit score %d is well above the lender minimum", credit)}
	case credit >= min+20:
		return factor{points: 20, strength: printer.Sprintf("Credit score %d comfortably clears the %d minimum", credit, min)}
	case credit >= min:
		return factor{points: 10, advice: "Raising your credit score a few points would improve your terms"}
	}
	return factor{
		concern: printer.Sprintf("Credit score %d is below the %d minimum", credit, min),
		advice:  "Pay down revolving balances and dispute any errors on your credit report",
	}
}

func fundingTimeFactor(months, min int) factor {
	switch {
	case min <= 0 || months >= 2*min:
		return factor{points: 25, strength: printer.Sprintf("%d months in business exceeds the requirement", months)}
	case months >= min:
		return factor{points: 15}
	}
	return factor{
		concern: printer.Sprintf("%d months in business is short of the %d month requirement", months, min),
		advice:  "Consider products with shorter time-in-business requirements while you build history",
	}
}

func fundingRevenueFactor(revenue, min float64) factor {
	switch {
	case min <= 0 || revenue >= 3*min:
		return factor{points: 25, strength: "Annual revenue is well above the lender minimum"}
	case revenue >= 2*min:
		return factor{points: 20, strength: "Annual revenue is at least twice the lender minimum"}
	case revenue >= min:
		return factor{points: 15}
	}
	return factor{
		concern: "Annual revenue of " + money(revenue) + " is below the " + money(min) + " minimum",
		advice:  "Show consistent deposits that support the revenue requirement",
	}
}

func fundingIndustryFactor(industry string, o *models.FundingOpportunity) factor {
	if o.Restricts(industry) {
		return factor{concern: "Your industry is restricted by this lender"}
	}
	return factor{points: 10}
}

func fundingAmountFactor(amount float64, o *models.FundingOpportunity) factor {
	switch {
	case amount <= 0:
		return factor{points: 10}
	case amount < o.AmountMin:
		return factor{
			points:  5,
			concern: "Requested " + money(amount) + " is below the lender minimum of " + money(o.AmountMin),
		}
	case o.AmountMax > 0 && amount > o.AmountMax:
		return factor{
			concern: "Requested " + money(amount) + " exceeds the lender maximum of " + money(o.AmountMax),
			advice:  "Split the request across products or lower the amount",
		}
	}
	return factor{points: 10, strength: "Requested amount fits the lender's range"}
}

func fundingFactors(p *models.UserProfile, o *models.FundingOpportunity) []factor {
	return []factor{
		fundingCreditFactor(p.CreditScore, o.MinCreditScore),
		fundingTimeFactor(p.TimeInBusinessMonths, o.MinTimeInBusinessMonths),
		fundingRevenueFactor(p.AnnualRevenue, o.MinAnnualRevenue),
		fundingIndustryFactor(p.Industry, o),
		fundingAmountFactor(p.FundingNeed.Amount, o),
	}
}

// Trade line bands

func tradeLineCreditFactor(credit, min int) factor {
	switch {
	case min <= 0 || credit >= min+50:
		return factor{points: 20}
	case credit >= min:
		return factor{points: 15}
	}
	return factor{concern: printer.Sprintf("Credit score %d is below the %d vendor minimum", credit, min)}
}

func tradeLineTimeFactor(months, min int) factor {
	switch {
	case min <= 0 || months >= 2*min:
		return factor{points: 20}
	case months >= min:
		return factor{points: 15}
	}
	return factor{concern: printer.Sprintf("Vendor requires %d months in business", min)}
}

func tradeLineRevenueFactor(revenue, min float64) factor {
	switch {
	case min <= 0 || revenue >= 2*min:
		return factor{points: 15}
	case revenue >= min:
		return factor{points: 10}
	}
	return factor{concern: "Vendor requires " + money(min) + " in annual revenue"}
}

func tradeLineImpactFactor(impact models.CreditImpact) factor {
	switch impact {
	case models.CreditImpactHigh:
		return factor{points: 20, strength: "High credit-building impact"}
	case models.CreditImpactMedium:
		return factor{points: 12}
	}
	return factor{points: 5, advice: "Pair this account with vendors that have a higher credit-building impact"}
}

func tradeLineBureauFactor(bureaus []models.Bureau) factor {
	switch n := len(bureaus); {
	case n >= 3:
		return factor{points: 15, strength: "Reports to all three business credit bureaus"}
	case n == 2:
		return factor{points: 10, strength: "Reports to two business credit bureaus"}
	case n == 1:
		return factor{points: 5}
	}
	return factor{
		concern: "Does not report to any business credit bureau",
		advice:  "Use this account for purchasing only; it will not build your credit file",
	}
}

func tradeLineFeeFactor(setupFee float64) factor {
	switch {
	case setupFee <= 0:
		return factor{points: 10, strength: "No setup fee"}
	case setupFee <= 50:
		return factor{points: 5}
	}
	return factor{advice: "Setup fee of " + money(setupFee) + " applies"}
}

func tradeLineGuaranteeFactor(credit int, o *models.TradeLineOpportunity) factor {
	if o.RequiresPersonalGuarantee && credit < 650 {
		return factor{
			concern: "Requires a personal guarantee and your credit score is under 650",
			advice:  "Open no-guarantee net-30 accounts first",
		}
	}
	return factor{}
}

func tradeLineFactors(p *models.UserProfile, o *models.TradeLineOpportunity) []factor {
	return []factor{
		tradeLineCreditFactor(p.CreditScore, o.MinCreditScore),
		tradeLineTimeFactor(p.TimeInBusinessMonths, o.MinTimeInBusinessMonths),
		tradeLineRevenueFactor(p.AnnualRevenue, o.MinAnnualRevenue),
		tradeLineImpactFactor(o.CreditBuildingImpact),
		tradeLineBureauFactor(o.ReportsTo),
		tradeLineFeeFactor(o.SetupFee),
		tradeLineGuaranteeFactor(p.CreditScore, o),
	}
}

// FundingFilterScore is the cheap 0-100 eligibility score used to prune the catalog.
func FundingFilterScore(p *models.UserProfile, o *models.FundingOpportunity) int {
	return sumPoints(fundingFactors(p, o))
}

// TradeLineFilterScore is the cheap 0-100 eligibility score for trade lines.
func TradeLineFilterScore(p *models.UserProfile, o *models.TradeLineOpportunity) int {
	return sumPoints(tradeLineFactors(p, o))
}

// AnalyzeFunding explains how well a profile matches a funding opportunity.
func AnalyzeFunding(p *models.UserProfile, o *models.FundingOpportunity) models.MatchAnalysis {
	a := collect(fundingFactors(p, o))

	switch {
	case p.FundabilityScore >= 75:
		a.Score += 5
		a.Strengths = append(a.Strengths, printer.Sprintf("Strong fundability score of %.0f", p.FundabilityScore))
	case p.FundabilityScore > 0 && p.FundabilityScore < 40:
		a.Concerns = append(a.Concerns, printer.Sprintf("Fundability score of %.0f is below lender expectations", p.FundabilityScore))
		a.Recommendations = append(a.Recommendations, "Work through your fundability recommendations before applying")
	}
	if a.Score > 100 {
		a.Score = 100
	}

	switch n := len(a.Concerns); {
	case n == 0:
		a.RiskLevel = models.RiskLow
	case n <= 2:
		a.RiskLevel = models.RiskMedium
	default:
		a.RiskLevel = models.RiskHigh
	}
	a.NextSteps = nextSteps(a.Score)
	return a
}

// AnalyzeTradeLine explains how well a profile matches a trade line.
func AnalyzeTradeLine(p *models.UserProfile, o *models.TradeLineOpportunity) models.MatchAnalysis {
	a := collect(tradeLineFactors(p, o))
	if a.Score > 100 {
		a.Score = 100
	}

	switch n := len(a.Concerns); {
	case n <= 1:
		a.RiskLevel = models.RiskLow
	case n <= 3:
		a.RiskLevel = models.RiskMedium
	default:
		a.RiskLevel = models.RiskHigh
	}
	a.NextSteps = nextSteps(a.Score)
	return a
}

func nextSteps(score int) []string {
	switch {
	case score >= 80:
		return []string{
			"Apply now: your profile meets the key requirements",
			"Have your bank statements and tax returns ready for underwriting",
		}
	case score >= 60:
		return []string{
			"Address the concerns listed before applying",
			"Ask the provider about conditional approval",
		}
	}
	return []string{
		"Improve your profile before applying",
		"Retake the fundability assessment after completing your recommendations",
	}
}

func sumPoints(factors []factor) int {
	total := 0
	for _, f := range factors {
		total += f.points
	}
	if total > 100 {
		total = 100
	}
	return total
}

func collect(factors []factor) models.MatchAnalysis {
	a := models.MatchAnalysis{
		Strengths:       []string{},
		Concerns:        []string{},
		Recommendations: []string{},
	}
	for _, f := range factors {
		a.Score += f.points
		if f.strength != "" {
			a.Strengths = append(a.Strengths, f.strength)
		}
		if f.concern != "" {
			a.Concerns = append(a.Concerns, f.concern)
		}
		if f.advice != "" {
			a.Recommendations = append(a.Recommendations, f.advice)
		}
	}
	return a
}
