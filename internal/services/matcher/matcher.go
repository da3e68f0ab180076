// Package matcher ranks marketplace funding and trade-line opportunities
// for a business profile.
package matcher

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"business-fundability-engine/internal/models"
)

// ErrInvalidProfile is returned for a profile that is present but malformed.
var ErrInvalidProfile = errors.New("invalid profile")

// Opportunities at or below these filter scores are never returned.
const (
	FundingMinScore   = 20
	TradeLineMinScore = 30

	defaultTopN = 5
)

// MatcherService runs the two-stage match: a cheap filter score over the whole
// catalog, then a full analysis for the top candidates.
type MatcherService struct {
	logger *zap.Logger
	topN   int
}

// Option configures a MatcherService.
type Option func(*MatcherService)

// WithLogger sets the matcher's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *MatcherService) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTopN sets how many ranked results receive a full analysis.
func WithTopN(n int) Option {
	return func(m *MatcherService) {
		if n > 0 {
			m.topN = n
		}
	}
}

// NewMatcherService creates a new matcher service
func NewMatcherService(opts ...Option) *MatcherService {
	m := &MatcherService{
		logger: zap.NewNop(),
		topN:   defaultTopN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchOpportunities ranks the catalog of the given kind for a profile.
// A nil profile is matched as DemoProfile and the result is flagged Demo.
func (m *MatcherService) MatchOpportunities(profile *models.UserProfile, catalog models.Catalog, kind models.OpportunityKind) (*models.MatchResult, error) {
	p, demo, err := m.resolveProfile(profile)
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{Kind: kind, Demo: demo, Profile: p}
	switch kind {
	case models.OpportunityKindFunding:
		result.Matches = m.rankFunding(&p, catalog.Funding)
	case models.OpportunityKindTradeLine:
		result.Matches = m.rankTradeLines(&p, catalog.TradeLines)
	default:
		return nil, fmt.Errorf("%q: %w", kind, models.ErrUnknownOpportunityKind)
	}

	m.logger.Info("Matching complete",
		zap.String("kind", string(kind)),
		zap.Bool("demo", demo),
		zap.Int("catalog_funding", len(catalog.Funding)),
		zap.Int("catalog_trade_lines", len(catalog.TradeLines)),
		zap.Int("matches", len(result.Matches)),
	)
	return result, nil
}

// MatchFunding ranks funding opportunities for a profile.
func (m *MatcherService) MatchFunding(profile *models.UserProfile, opportunities []models.FundingOpportunity) ([]models.RankedMatch, error) {
	p, _, err := m.resolveProfile(profile)
	if err != nil {
		return nil, err
	}
	return m.rankFunding(&p, opportunities), nil
}

// MatchTradeLines ranks trade-line opportunities for a profile.
func (m *MatcherService) MatchTradeLines(profile *models.UserProfile, opportunities []models.TradeLineOpportunity) ([]models.RankedMatch, error) {
	p, _, err := m.resolveProfile(profile)
	if err != nil {
		return nil, err
	}
	return m.rankTradeLines(&p, opportunities), nil
}

func (m *MatcherService) resolveProfile(profile *models.UserProfile) (models.UserProfile, bool, error) {
	if profile == nil {
		m.logger.Debug("No profile supplied, using demo profile")
		return DemoProfile(), true, nil
	}
	if err := models.ValidateProfile(profile); err != nil {
		return models.UserProfile{}, false, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	p := *profile
	p.Industry = models.NormalizeIndustry(p.Industry)
	return p, false, nil
}

func (m *MatcherService) rankFunding(p *models.UserProfile, opportunities []models.FundingOpportunity) []models.RankedMatch {
	matches := make([]models.RankedMatch, 0, len(opportunities))
	for i := range opportunities {
		o := &opportunities[i]
		if !o.IsActive {
			continue
		}
		score := FundingFilterScore(p, o)
		if score <= FundingMinScore {
			m.logger.Debug("Filtered funding opportunity",
				zap.String("opportunity_id", o.ID),
				zap.Int("score", score),
			)
			continue
		}
		opp := *o
		matches = append(matches, models.RankedMatch{
			Kind:             models.OpportunityKindFunding,
			OpportunityID:    o.ID,
			Name:             o.ProductName,
			Provider:         o.LenderName,
			EligibilityScore: score,
			Funding:          &opp,
		})
	}

	m.rank(matches)
	for i := 0; i < len(matches) && i < m.topN; i++ {
		analysis := AnalyzeFunding(p, matches[i].Funding)
		matches[i].Analysis = &analysis
	}
	return matches
}

func (m *MatcherService) rankTradeLines(p *models.UserProfile, opportunities []models.TradeLineOpportunity) []models.RankedMatch {
	matches := make([]models.RankedMatch, 0, len(opportunities))
	for i := range opportunities {
		o := &opportunities[i]
		if !o.IsActive || p.HasTradeLine(o.VendorName) {
			continue
		}
		score := TradeLineFilterScore(p, o)
		if score <= TradeLineMinScore {
			m.logger.Debug("Filtered trade line",
				zap.String("opportunity_id", o.ID),
				zap.Int("score", score),
			)
			continue
		}
		opp := *o
		matches = append(matches, models.RankedMatch{
			Kind:             models.OpportunityKindTradeLine,
			OpportunityID:    o.ID,
			Name:             o.VendorName + " " + o.Terms,
			Provider:         o.VendorName,
			EligibilityScore: score,
			TradeLine:        &opp,
		})
	}

	m.rank(matches)
	for i := 0; i < len(matches) && i < m.topN; i++ {
		analysis := AnalyzeTradeLine(p, matches[i].TradeLine)
		matches[i].Analysis = &analysis
	}
	return matches
}

// rank sorts by eligibility score, keeping catalog order for ties.
func (m *MatcherService) rank(matches []models.RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].EligibilityScore > matches[j].EligibilityScore
	})
	for i := range matches {
		matches[i].Rank = i + 1
	}
}
