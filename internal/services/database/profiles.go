package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"business-fundability-engine/internal/models"
)

// ProfileRepository handles business profile database operations.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert inserts or replaces the profile of a business.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.UserProfile) error {
	needJSON, err := json.Marshal(p.FundingNeed)
	if err != nil {
		return fmt.Errorf("failed to marshal funding need: %w", err)
	}

	tradeLines := p.ExistingTradeLines
	if tradeLines == nil {
		tradeLines = []string{}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO business_profiles (
			business_id, credit_score, time_in_business_months, annual_revenue,
			industry, business_structure, funding_need, existing_trade_lines,
			fundability_score, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (business_id) DO UPDATE SET
			credit_score = EXCLUDED.credit_score,
			time_in_business_months = EXCLUDED.time_in_business_months,
			annual_revenue = EXCLUDED.annual_revenue,
			industry = EXCLUDED.industry,
			business_structure = EXCLUDED.business_structure,
			funding_need = EXCLUDED.funding_need,
			existing_trade_lines = EXCLUDED.existing_trade_lines,
			fundability_score = EXCLUDED.fundability_score,
			updated_at = EXCLUDED.updated_at`,
		p.BusinessID,
		p.CreditScore,
		p.TimeInBusinessMonths,
		p.AnnualRevenue,
		p.Industry,
		string(p.BusinessStructure),
		string(needJSON),
		tradeLines,
		p.FundabilityScore,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetByBusinessID retrieves a profile, or nil when the business has none.
func (r *ProfileRepository) GetByBusinessID(ctx context.Context, businessID string) (*models.UserProfile, error) {
	var p models.UserProfile
	var structure string
	var needJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT business_id, credit_score, time_in_business_months, annual_revenue,
			industry, business_structure, funding_need, existing_trade_lines,
			fundability_score, updated_at
		FROM business_profiles
		WHERE business_id = $1`, businessID).Scan(
		&p.BusinessID,
		&p.CreditScore,
		&p.TimeInBusinessMonths,
		&p.AnnualRevenue,
		&p.Industry,
		&structure,
		&needJSON,
		&p.ExistingTradeLines,
		&p.FundabilityScore,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.BusinessStructure = models.BusinessStructure(structure)
	if len(needJSON) > 0 {
		if err := json.Unmarshal(needJSON, &p.FundingNeed); err != nil {
			return nil, fmt.Errorf("failed to decode funding need: %w", err)
		}
	}
	return &p, nil
}

// UpdateFundabilityScore stores the display percentage of the latest assessment.
func (r *ProfileRepository) UpdateFundabilityScore(ctx context.Context, businessID string, score float64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE business_profiles SET fundability_score = $1, updated_at = $2 WHERE business_id = $3",
		score, time.Now().UTC(), businessID)
	return err
}
