package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"business-fundability-engine/internal/models"
)

// mockProfile creates a test profile with default values
func mockProfile(overrides ...func(*models.UserProfile)) *models.UserProfile {
	p := &models.UserProfile{
		BusinessID:           "biz-001",
		CreditScore:          720,
		TimeInBusinessMonths: 36,
		AnnualRevenue:        500000,
		Industry:             models.IndustryRetail,
		BusinessStructure:    models.BusinessStructureLLC,
		FundingNeed:          models.FundingNeed{Amount: 100000, Purpose: "inventory"},
		FundabilityScore:     70,
	}
	for _, o := range overrides {
		o(p)
	}
	return p
}

// mockFunding creates a test funding opportunity with default values
func mockFunding(overrides ...func(*models.FundingOpportunity)) models.FundingOpportunity {
	o := models.FundingOpportunity{
		ID:                      "test-loan",
		LenderName:              "Test Bank",
		ProductName:             "Test Term Loan",
		FundingType:             models.FundingTypeTermLoan,
		AmountMin:               5000,
		AmountMax:               50000,
		MinCreditScore:          700,
		MinTimeInBusinessMonths: 24,
		MinAnnualRevenue:        100000,
		IsActive:                true,
	}
	for _, f := range overrides {
		f(&o)
	}
	return o
}

func newTestMatcher(t *testing.T, opts ...Option) *MatcherService {
	t.Helper()
	return NewMatcherService(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func matchIDs(matches []models.RankedMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.OpportunityID)
	}
	return ids
}

func TestFundingFilterScore_Bands(t *testing.T) {
	opp := mockFunding()

	tests := []struct {
		name    string
		profile *models.UserProfile
		want    int
	}{
		{
			name:    "excellent across the board",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 760; p.TimeInBusinessMonths = 48; p.AnnualRevenue = 300000; p.FundingNeed.Amount = 20000 }),
			want:    30 + 25 + 25 + 10 + 10,
		},
		{
			name:    "just meets minimums",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 700; p.TimeInBusinessMonths = 24; p.AnnualRevenue = 100000; p.FundingNeed.Amount = 20000 }),
			want:    10 + 15 + 15 + 10 + 10,
		},
		{
			name:    "middle bands",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 725; p.TimeInBusinessMonths = 30; p.AnnualRevenue = 200000; p.FundingNeed.Amount = 20000 }),
			want:    20 + 15 + 20 + 10 + 10,
		},
		{
			name:    "amount below minimum gets partial credit",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 700; p.TimeInBusinessMonths = 24; p.AnnualRevenue = 100000; p.FundingNeed.Amount = 1000 }),
			want:    10 + 15 + 15 + 10 + 5,
		},
		{
			name:    "amount above maximum gets nothing",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 700; p.TimeInBusinessMonths = 24; p.AnnualRevenue = 100000; p.FundingNeed.Amount = 90000 }),
			want:    10 + 15 + 15 + 10,
		},
		{
			name:    "below every minimum",
			profile: mockProfile(func(p *models.UserProfile) { p.CreditScore = 600; p.TimeInBusinessMonths = 6; p.AnnualRevenue = 10000; p.FundingNeed.Amount = 0 }),
			want:    10 + 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FundingFilterScore(tt.profile, &opp))
		})
	}
}

func TestFundingFilterScore_RestrictedIndustry(t *testing.T) {
	opp := mockFunding(func(o *models.FundingOpportunity) { o.RestrictedIndustries = []string{"Restaurants"} })

	allowed := FundingFilterScore(mockProfile(), &opp)
	restricted := FundingFilterScore(mockProfile(func(p *models.UserProfile) { p.Industry = "restaurant" }), &opp)
	assert.Equal(t, allowed-10, restricted)
}

func TestMatchFunding_FiltersLowScores(t *testing.T) {
	m := newTestMatcher(t)
	profile := mockProfile(func(p *models.UserProfile) {
		p.CreditScore = 600
		p.TimeInBusinessMonths = 6
		p.AnnualRevenue = 10000
		p.FundingNeed.Amount = 10000
	})

	atThreshold := mockFunding(func(o *models.FundingOpportunity) { o.ID = "at-threshold" })
	aboveThreshold := mockFunding(func(o *models.FundingOpportunity) { o.ID = "above-threshold"; o.MinCreditScore = 600 })
	require.Equal(t, FundingMinScore, FundingFilterScore(profile, &atThreshold))
	require.Greater(t, FundingFilterScore(profile, &aboveThreshold), FundingMinScore)

	matches, err := m.MatchFunding(profile, []models.FundingOpportunity{atThreshold, aboveThreshold})
	require.NoError(t, err)
	assert.Equal(t, []string{"above-threshold"}, matchIDs(matches))
	for _, match := range matches {
		assert.Greater(t, match.EligibilityScore, FundingMinScore)
	}
}

func TestMatchOpportunities_DemoProfileFallback(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.MatchOpportunities(nil, DefaultCatalog(), models.OpportunityKindFunding)
	require.NoError(t, err)

	assert.True(t, result.Demo)
	assert.Equal(t, DemoProfile(), result.Profile)
	require.NotEmpty(t, result.Matches)

	assert.Equal(t, []string{
		"balboa-equipment",
		"fundbox-invoice",
		"rapid-finance-mca",
		"bluevine-loc",
		"ondeck-term",
		"amex-business-card",
		"sba-7a-live-oak",
	}, matchIDs(result.Matches))

	for i, match := range result.Matches {
		assert.Equal(t, i+1, match.Rank)
		assert.NotNil(t, match.Funding)
		if i > 0 {
			assert.LessOrEqual(t, match.EligibilityScore, result.Matches[i-1].EligibilityScore)
		}
		if i < defaultTopN {
			assert.NotNil(t, match.Analysis, match.OpportunityID)
		} else {
			assert.Nil(t, match.Analysis, match.OpportunityID)
		}
	}
	assert.Equal(t, 60, result.Matches[len(result.Matches)-1].EligibilityScore)
}

func TestMatchOpportunities_TradeLines(t *testing.T) {
	m := newTestMatcher(t, WithTopN(2))

	result, err := m.MatchOpportunities(nil, DefaultCatalog(), models.OpportunityKindTradeLine)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"crown-office-net30",
		"uline-net30",
		"grainger-net30",
		"summa-net30",
		"shell-fleet",
		"quill-net30",
		"home-depot-commercial",
		"amazon-business-terms",
	}, matchIDs(result.Matches))
	assert.NotNil(t, result.Matches[1].Analysis)
	assert.Nil(t, result.Matches[2].Analysis)
	for _, match := range result.Matches {
		assert.Greater(t, match.EligibilityScore, TradeLineMinScore)
		assert.Equal(t, models.OpportunityKindTradeLine, match.Kind)
	}
}

func TestMatchTradeLines_SkipsExistingAccounts(t *testing.T) {
	m := newTestMatcher(t)
	profile := mockProfile(func(p *models.UserProfile) { p.ExistingTradeLines = []string{"ULINE", "quill"} })

	matches, err := m.MatchTradeLines(profile, DefaultCatalog().TradeLines)
	require.NoError(t, err)
	ids := matchIDs(matches)
	assert.NotContains(t, ids, "uline-net30")
	assert.NotContains(t, ids, "quill-net30")
	assert.Contains(t, ids, "crown-office-net30")
}

func TestMatchFunding_SkipsInactiveListings(t *testing.T) {
	m := newTestMatcher(t)
	profile := mockProfile()

	retired := mockFunding(func(o *models.FundingOpportunity) { o.ID = "retired"; o.IsActive = false })
	live := mockFunding(func(o *models.FundingOpportunity) { o.ID = "live" })
	require.Greater(t, FundingFilterScore(profile, &retired), FundingMinScore)

	matches, err := m.MatchFunding(profile, []models.FundingOpportunity{retired, live})
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, matchIDs(matches))
}

func TestMatchTradeLines_SkipsInactiveListings(t *testing.T) {
	m := newTestMatcher(t)
	catalog := DefaultCatalog()
	for i := range catalog.TradeLines {
		if catalog.TradeLines[i].ID == "crown-office-net30" {
			catalog.TradeLines[i].IsActive = false
		}
	}

	result, err := m.MatchOpportunities(nil, catalog, models.OpportunityKindTradeLine)
	require.NoError(t, err)
	ids := matchIDs(result.Matches)
	assert.NotContains(t, ids, "crown-office-net30")
	assert.Contains(t, ids, "uline-net30")
	assert.Equal(t, 1, result.Matches[0].Rank)
}

func TestMatchOpportunities_InvalidProfile(t *testing.T) {
	m := newTestMatcher(t)

	_, err := m.MatchOpportunities(mockProfile(func(p *models.UserProfile) { p.CreditScore = 900 }), DefaultCatalog(), models.OpportunityKindFunding)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.ErrorIs(t, err, models.ErrInvalidCreditScore)

	_, err = m.MatchFunding(mockProfile(func(p *models.UserProfile) { p.AnnualRevenue = -1 }), nil)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestMatchOpportunities_UnknownKind(t *testing.T) {
	_, err := newTestMatcher(t).MatchOpportunities(mockProfile(), DefaultCatalog(), models.OpportunityKind("equity"))
	assert.ErrorIs(t, err, models.ErrUnknownOpportunityKind)
}

func TestAnalyzeFunding_StrongProfile(t *testing.T) {
	opp := mockFunding()
	profile := mockProfile(func(p *models.UserProfile) {
		p.CreditScore = 780
		p.TimeInBusinessMonths = 120
		p.AnnualRevenue = 2000000
		p.FundabilityScore = 85
		p.FundingNeed.Amount = 25000
	})

	a := AnalyzeFunding(profile, &opp)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, models.RiskLow, a.RiskLevel)
	assert.Empty(t, a.Concerns)
	assert.Contains(t, a.Strengths, "Strong fundability score of 85")
	assert.Contains(t, a.NextSteps[0], "Apply now")
}

func TestAnalyzeFunding_WeakProfile(t *testing.T) {
	opp := mockFunding()
	profile := mockProfile(func(p *models.UserProfile) {
		p.CreditScore = 600
		p.TimeInBusinessMonths = 6
		p.AnnualRevenue = 40000
		p.FundabilityScore = 30
		p.FundingNeed.Amount = 20000
	})

	a := AnalyzeFunding(profile, &opp)
	assert.Equal(t, 20, a.Score)
	assert.Len(t, a.Concerns, 4)
	assert.Equal(t, models.RiskHigh, a.RiskLevel)
	assert.Contains(t, a.Concerns, "Annual revenue of $40,000 is below the $100,000 minimum")
	assert.Contains(t, a.NextSteps[0], "Improve your profile")
}

func TestAnalyzeFunding_AmountAboveMaximum(t *testing.T) {
	opp := mockFunding()
	profile := mockProfile(func(p *models.UserProfile) {
		p.CreditScore = 760
		p.TimeInBusinessMonths = 48
		p.AnnualRevenue = 300000
		p.FundingNeed.Amount = 75000
	})

	a := AnalyzeFunding(profile, &opp)
	assert.Equal(t, 90, a.Score)
	assert.Equal(t, []string{"Requested $75,000 exceeds the lender maximum of $50,000"}, a.Concerns)
	assert.Equal(t, models.RiskMedium, a.RiskLevel)
	assert.Contains(t, a.NextSteps[0], "Apply now")
}

func TestAnalyzeFunding_SharesFilterBands(t *testing.T) {
	profile := DemoProfile()
	for _, opp := range DefaultCatalog().Funding {
		opp := opp
		a := AnalyzeFunding(&profile, &opp)
		assert.Equal(t, FundingFilterScore(&profile, &opp), a.Score, opp.ID)
	}
}

func TestAnalyzeTradeLine_PersonalGuaranteeConcern(t *testing.T) {
	var homeDepot models.TradeLineOpportunity
	for _, tl := range DefaultCatalog().TradeLines {
		if tl.ID == "home-depot-commercial" {
			homeDepot = tl
		}
	}
	require.NotEmpty(t, homeDepot.ID)

	weak := mockProfile(func(p *models.UserProfile) { p.CreditScore = 620; p.AnnualRevenue = 100000 })
	a := AnalyzeTradeLine(weak, &homeDepot)
	assert.Len(t, a.Concerns, 2)
	assert.Equal(t, models.RiskMedium, a.RiskLevel)

	strong := mockProfile(func(p *models.UserProfile) { p.CreditScore = 720 })
	a = AnalyzeTradeLine(strong, &homeDepot)
	assert.Empty(t, a.Concerns)
	assert.Equal(t, models.RiskLow, a.RiskLevel)
}

func TestTradeLineFilterScore_BureausAndFees(t *testing.T) {
	profile := mockProfile()
	base := models.TradeLineOpportunity{ID: "tl", VendorName: "Vendor", CreditBuildingImpact: models.CreditImpactHigh}

	none := base
	assert.Equal(t, 20+20+15+20+0+10, TradeLineFilterScore(profile, &none))

	three := base
	three.ReportsTo = []models.Bureau{models.BureauDunBradstreet, models.BureauExperian, models.BureauEquifax}
	three.SetupFee = 49
	assert.Equal(t, 20+20+15+20+15+5, TradeLineFilterScore(profile, &three))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$50,000", money(50000))
	assert.Equal(t, "$1,250,000", money(1250000))
	assert.Equal(t, "$75", money(75))
}
