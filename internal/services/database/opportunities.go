package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"business-fundability-engine/internal/models"
)

// OpportunityRepository handles the funding and trade-line catalog.
type OpportunityRepository struct {
	db *DB
}

// NewOpportunityRepository creates a new opportunity repository.
func NewOpportunityRepository(db *DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

const upsertFundingSQL = `
	INSERT INTO funding_opportunities (
		id, lender_name, product_name, funding_type, amount_min, amount_max,
		term_min_months, term_max_months, rate_min, rate_max, min_credit_score,
		min_time_in_business_months, min_annual_revenue, restricted_industries,
		origination_fee_percent, features, approval_time, is_active, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
	ON CONFLICT (id) DO UPDATE SET
		lender_name = EXCLUDED.lender_name,
		product_name = EXCLUDED.product_name,
		funding_type = EXCLUDED.funding_type,
		amount_min = EXCLUDED.amount_min,
		amount_max = EXCLUDED.amount_max,
		term_min_months = EXCLUDED.term_min_months,
		term_max_months = EXCLUDED.term_max_months,
		rate_min = EXCLUDED.rate_min,
		rate_max = EXCLUDED.rate_max,
		min_credit_score = EXCLUDED.min_credit_score,
		min_time_in_business_months = EXCLUDED.min_time_in_business_months,
		min_annual_revenue = EXCLUDED.min_annual_revenue,
		restricted_industries = EXCLUDED.restricted_industries,
		origination_fee_percent = EXCLUDED.origination_fee_percent,
		features = EXCLUDED.features,
		approval_time = EXCLUDED.approval_time,
		is_active = EXCLUDED.is_active,
		updated_at = EXCLUDED.updated_at`

func fundingArgs(o *models.FundingOpportunity, now time.Time) []interface{} {
	return []interface{}{
		o.ID,
		o.LenderName,
		o.ProductName,
		string(o.FundingType),
		o.AmountMin,
		o.AmountMax,
		o.TermMinMonths,
		o.TermMaxMonths,
		o.RateMin,
		o.RateMax,
		o.MinCreditScore,
		o.MinTimeInBusinessMonths,
		o.MinAnnualRevenue,
		nonNil(o.RestrictedIndustries),
		o.OriginationFeePercent,
		nonNil(o.Features),
		o.ApprovalTime,
		o.IsActive,
		now,
	}
}

// UpsertFunding inserts or replaces one funding product.
func (r *OpportunityRepository) UpsertFunding(ctx context.Context, o *models.FundingOpportunity) error {
	if _, err := r.db.ExecContext(ctx, upsertFundingSQL, fundingArgs(o, time.Now().UTC())...); err != nil {
		return fmt.Errorf("failed to upsert funding opportunity %s: %w", o.ID, err)
	}
	return nil
}

// BulkUpsertFunding upserts imported funding products in one transaction.
// Individual row failures are recorded in the result.
func (r *OpportunityRepository) BulkUpsertFunding(ctx context.Context, opps []*models.FundingOpportunity) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: []string{}}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, o := range opps {
			// A savepoint keeps one bad row from aborting the whole transaction.
			if _, err := tx.Exec(ctx, "SAVEPOINT catalog_row"); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, upsertFundingSQL, fundingArgs(o, now)...); err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("opportunity %s: %v", o.ID, err))
				if _, err := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT catalog_row"); err != nil {
					return err
				}
				continue
			}
			result.InsertedCount++
		}
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("bulk upsert failed: %w", err)
	}
	return result, nil
}

// UpsertTradeLine inserts or replaces one vendor trade line.
func (r *OpportunityRepository) UpsertTradeLine(ctx context.Context, t *models.TradeLineOpportunity) error {
	bureaus := make([]string, 0, len(t.ReportsTo))
	for _, b := range t.ReportsTo {
		bureaus = append(bureaus, string(b))
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trade_line_opportunities (
			id, vendor_name, product_category, terms, credit_limit_min, credit_limit_max,
			reports_to, credit_building_impact, min_credit_score, min_time_in_business_months,
			min_annual_revenue, setup_fee, annual_fee, requires_personal_guarantee,
			features, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		ON CONFLICT (id) DO UPDATE SET
			vendor_name = EXCLUDED.vendor_name,
			product_category = EXCLUDED.product_category,
			terms = EXCLUDED.terms,
			credit_limit_min = EXCLUDED.credit_limit_min,
			credit_limit_max = EXCLUDED.credit_limit_max,
			reports_to = EXCLUDED.reports_to,
			credit_building_impact = EXCLUDED.credit_building_impact,
			min_credit_score = EXCLUDED.min_credit_score,
			min_time_in_business_months = EXCLUDED.min_time_in_business_months,
			min_annual_revenue = EXCLUDED.min_annual_revenue,
			setup_fee = EXCLUDED.setup_fee,
			annual_fee = EXCLUDED.annual_fee,
			requires_personal_guarantee = EXCLUDED.requires_personal_guarantee,
			features = EXCLUDED.features,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		t.ID,
		t.VendorName,
		t.ProductCategory,
		t.Terms,
		t.CreditLimitMin,
		t.CreditLimitMax,
		bureaus,
		string(t.CreditBuildingImpact),
		t.MinCreditScore,
		t.MinTimeInBusinessMonths,
		t.MinAnnualRevenue,
		t.SetupFee,
		t.AnnualFee,
		t.RequiresPersonalGuarantee,
		nonNil(t.Features),
		t.IsActive,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trade line %s: %w", t.ID, err)
	}
	return nil
}

// ListActiveFunding returns all active funding products.
func (r *OpportunityRepository) ListActiveFunding(ctx context.Context) ([]models.FundingOpportunity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lender_name, product_name, funding_type, amount_min, amount_max,
			term_min_months, term_max_months, rate_min, rate_max, min_credit_score,
			min_time_in_business_months, min_annual_revenue, restricted_industries,
			origination_fee_percent, features, approval_time, is_active, created_at, updated_at
		FROM funding_opportunities
		WHERE is_active = true
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding opportunities: %w", err)
	}
	defer rows.Close()

	var opps []models.FundingOpportunity
	for rows.Next() {
		var o models.FundingOpportunity
		var fundingType string
		err := rows.Scan(
			&o.ID, &o.LenderName, &o.ProductName, &fundingType, &o.AmountMin, &o.AmountMax,
			&o.TermMinMonths, &o.TermMaxMonths, &o.RateMin, &o.RateMax, &o.MinCreditScore,
			&o.MinTimeInBusinessMonths, &o.MinAnnualRevenue, &o.RestrictedIndustries,
			&o.OriginationFeePercent, &o.Features, &o.ApprovalTime, &o.IsActive, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding opportunity: %w", err)
		}
		o.FundingType = models.FundingType(fundingType)
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// ListActiveTradeLines returns all active vendor trade lines.
func (r *OpportunityRepository) ListActiveTradeLines(ctx context.Context) ([]models.TradeLineOpportunity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, vendor_name, product_category, terms, credit_limit_min, credit_limit_max,
			reports_to, credit_building_impact, min_credit_score, min_time_in_business_months,
			min_annual_revenue, setup_fee, annual_fee, requires_personal_guarantee,
			features, is_active, created_at, updated_at
		FROM trade_line_opportunities
		WHERE is_active = true
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade lines: %w", err)
	}
	defer rows.Close()

	var lines []models.TradeLineOpportunity
	for rows.Next() {
		var t models.TradeLineOpportunity
		var bureaus []string
		var impact string
		err := rows.Scan(
			&t.ID, &t.VendorName, &t.ProductCategory, &t.Terms, &t.CreditLimitMin, &t.CreditLimitMax,
			&bureaus, &impact, &t.MinCreditScore, &t.MinTimeInBusinessMonths,
			&t.MinAnnualRevenue, &t.SetupFee, &t.AnnualFee, &t.RequiresPersonalGuarantee,
			&t.Features, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade line: %w", err)
		}
		for _, b := range bureaus {
			t.ReportsTo = append(t.ReportsTo, models.Bureau(b))
		}
		t.CreditBuildingImpact = models.CreditImpact(impact)
		lines = append(lines, t)
	}
	return lines, rows.Err()
}

// Catalog loads both active catalogs.
func (r *OpportunityRepository) Catalog(ctx context.Context) (*models.Catalog, error) {
	funding, err := r.ListActiveFunding(ctx)
	if err != nil {
		return nil, err
	}
	tradeLines, err := r.ListActiveTradeLines(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Catalog{Funding: funding, TradeLines: tradeLines}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
