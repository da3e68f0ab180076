package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"business-fundability-engine/internal/models"
)

// AssessmentRepository stores the assessment history of each business.
type AssessmentRepository struct {
	db *DB
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(db *DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, business_id, overall_score, percentage, grade,
	context, result, recommendations, created_at`

// Save inserts an assessment record. Saving the same ID twice is a no-op.
func (r *AssessmentRepository) Save(ctx context.Context, rec *models.AssessmentRecord) error {
	contextJSON, err := json.Marshal(rec.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal business context: %w", err)
	}
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring result: %w", err)
	}
	recsJSON, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assessments (`+assessmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID,
		rec.BusinessID,
		rec.OverallScore,
		rec.Percentage,
		string(rec.Grade),
		string(contextJSON),
		string(resultJSON),
		string(recsJSON),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetByID retrieves one assessment, or nil when it does not exist.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = $1`, id)
	rec, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return rec, nil
}

// ListByBusinessID returns the most recent assessments of a business,
// newest first.
func (r *AssessmentRepository) ListByBusinessID(ctx context.Context, businessID string, limit int) ([]models.AssessmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []models.AssessmentRecord
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanAssessment(row pgx.Row) (*models.AssessmentRecord, error) {
	var rec models.AssessmentRecord
	var grade string
	var contextJSON, resultJSON, recsJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.BusinessID,
		&rec.OverallScore,
		&rec.Percentage,
		&grade,
		&contextJSON,
		&resultJSON,
		&recsJSON,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Grade = models.Grade(grade)
	if err := json.Unmarshal(contextJSON, &rec.Context); err != nil {
		return nil, fmt.Errorf("failed to decode business context: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to decode scoring result: %w", err)
	}
	if len(recsJSON) > 0 {
		if err := json.Unmarshal(recsJSON, &rec.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
	}
	return &rec, nil
}
