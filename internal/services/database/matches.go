package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"business-fundability-engine/internal/models"
)

// MatchRepository stores the ranked opportunities shown to a business.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveResult upserts every ranked match of a result. Rows that fail are
// counted and skipped.
func (r *MatchRepository) SaveResult(ctx context.Context, businessID string, result *models.MatchResult) (int, int, error) {
	inserted := 0
	failed := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		for _, m := range result.Matches {
			var analysis *string
			var risk string
			if m.Analysis != nil {
				raw, err := json.Marshal(m.Analysis)
				if err != nil {
					failed++
					continue
				}
				s := string(raw)
				analysis = &s
				risk = string(m.Analysis.RiskLevel)
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO opportunity_matches (
					business_id, kind, opportunity_id, rank, eligibility_score,
					risk_level, analysis, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $8)
				ON CONFLICT (business_id, kind, opportunity_id) DO UPDATE SET
					rank = EXCLUDED.rank,
					eligibility_score = EXCLUDED.eligibility_score,
					risk_level = EXCLUDED.risk_level,
					analysis = EXCLUDED.analysis,
					updated_at = EXCLUDED.updated_at`,
				businessID,
				string(m.Kind),
				m.OpportunityID,
				m.Rank,
				m.EligibilityScore,
				risk,
				analysis,
				now,
			)

			if err != nil {
				failed++
			} else {
				inserted++
			}
		}
		return nil
	})

	return inserted, failed, err
}

// ListByBusinessID returns saved matches of one kind, best first.
func (r *MatchRepository) ListByBusinessID(ctx context.Context, businessID string, kind models.OpportunityKind, limit int) ([]models.StoredMatch, error) {
	query := `
		SELECT id, business_id, kind, opportunity_id, rank, eligibility_score,
			   risk_level, analysis, created_at, updated_at
		FROM opportunity_matches
		WHERE business_id = $1 AND kind = $2
		ORDER BY rank
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, businessID, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches by business: %w", err)
	}
	defer rows.Close()

	var matches []models.StoredMatch
	for rows.Next() {
		var m models.StoredMatch
		var kind string
		var risk *string
		var analysis []byte
		err := rows.Scan(
			&m.ID, &m.BusinessID, &kind, &m.OpportunityID, &m.Rank, &m.EligibilityScore,
			&risk, &analysis, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Kind = models.OpportunityKind(kind)
		if risk != nil {
			m.RiskLevel = models.RiskLevel(*risk)
		}
		if len(analysis) > 0 {
			m.Analysis = &models.MatchAnalysis{}
			if err := json.Unmarshal(analysis, m.Analysis); err != nil {
				return nil, fmt.Errorf("failed to decode match analysis: %w", err)
			}
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
