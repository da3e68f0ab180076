package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/utils"
)

var testDB *DB

func TestMain(m *testing.M) {
	// Integration tests run only against a real database.
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		os.Exit(m.Run())
	}

	var err error
	testDB, err = NewFromURL(context.Background(), url)
	if err != nil {
		panic("Failed to connect to test database: " + err.Error())
	}
	if err := testDB.ApplySchema(context.Background()); err != nil {
		panic(err.Error())
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("DATABASE_URL not set")
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS assessments")
	assert.NotContains(t, Schema, "DROP TABLE")
	assert.NotContains(t, Schema, "BETWEEN 0 AND 1000", "scores above 1000 must be storable")

	requireDB(t)
	assert.NoError(t, testDB.ApplySchema(context.Background()))
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}

func TestNewFromURL_RejectsMalformedURL(t *testing.T) {
	db, err := NewFromURL(context.Background(), "postgres://%zz@localhost/fundability")
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to parse database URL")
}

func TestDatabaseConnection(t *testing.T) {
	requireDB(t)

	poolConfig := testDB.pool.Config()
	assert.Equal(t, int32(maxConns), poolConfig.MaxConns)
	assert.Equal(t, int32(minConns), poolConfig.MinConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, testDB.HealthCheck(ctx))
}

func TestProfileRepository_UpsertAndGet(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(testDB)

	businessID := "it-" + uuid.NewString()
	profile := &models.UserProfile{
		BusinessID:           businessID,
		CreditScore:          690,
		TimeInBusinessMonths: 40,
		AnnualRevenue:        320000,
		Industry:             models.IndustryConstruction,
		BusinessStructure:    models.BusinessStructureLLC,
		FundingNeed:          models.FundingNeed{Amount: 75000, Purpose: "equipment"},
		ExistingTradeLines:   []string{"Uline"},
		FundabilityScore:     58,
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.GetByBusinessID(ctx, businessID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 690, got.CreditScore)
	assert.Equal(t, 75000.0, got.FundingNeed.Amount)
	assert.Equal(t, []string{"Uline"}, got.ExistingTradeLines)

	require.NoError(t, repo.UpdateFundabilityScore(ctx, businessID, 71.5))
	got, err = repo.GetByBusinessID(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, 71.5, got.FundabilityScore)

	missing, err := repo.GetByBusinessID(ctx, "it-missing-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAssessmentRepository_History(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAssessmentRepository(testDB)

	businessID := "it-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Second)
	for i, score := range []int{420, 515} {
		rec := &models.AssessmentRecord{
			ID:           uuid.NewString(),
			BusinessID:   businessID,
			OverallScore: score,
			Percentage:   float64(score) / 10,
			Grade:        models.GradeF,
			Result:       models.ScoringResult{OverallScore: score},
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Save(ctx, rec))
		require.NoError(t, repo.Save(ctx, rec), "saving twice is a no-op")
	}

	history, err := repo.ListByBusinessID(ctx, businessID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 515, history[0].OverallScore)
	assert.Equal(t, 515, history[0].Result.OverallScore)

	got, err := repo.GetByID(ctx, history[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 420, got.OverallScore)
}

func TestOpportunityRepository_Catalog(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewOpportunityRepository(testDB)

	id := "it-" + uuid.NewString()
	result, err := repo.BulkUpsertFunding(ctx, []*models.FundingOpportunity{{
		ID:                   id,
		LenderName:           "Integration Bank",
		ProductName:          "Test Loan",
		FundingType:          models.FundingTypeTermLoan,
		AmountMin:            1000,
		AmountMax:            10000,
		MinCreditScore:       600,
		RestrictedIndustries: []string{"gambling"},
		IsActive:             true,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.InsertedCount)

	catalog, err := repo.Catalog(ctx)
	require.NoError(t, err)
	found := false
	for _, o := range catalog.Funding {
		if o.ID == id {
			found = true
			assert.Equal(t, []string{"gambling"}, o.RestrictedIndustries)
		}
	}
	assert.True(t, found)

	retired, parseErrs := utils.NewCSVParser().ParseFundingOpportunities(
		"id,lender_name,product_name,funding_type,amount_min,amount_max,min_credit_score,status\n" +
			id + ",Integration Bank,Test Loan,term,1000,10000,600,retired\n")
	require.Empty(t, parseErrs)
	require.Len(t, retired, 1)
	result, err = repo.BulkUpsertFunding(ctx, retired)
	require.NoError(t, err)
	assert.Equal(t, 1, result.InsertedCount)

	funding, err := repo.ListActiveFunding(ctx)
	require.NoError(t, err)
	for _, o := range funding {
		assert.NotEqual(t, id, o.ID)
	}
}

func TestAssessmentRepository_ScoreAboveScale(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAssessmentRepository(testDB)

	rec := &models.AssessmentRecord{
		ID:           uuid.NewString(),
		BusinessID:   "it-" + uuid.NewString(),
		OverallScore: 1294,
		Percentage:   129.4,
		Grade:        models.GradeAPlus,
		Result:       models.ScoringResult{OverallScore: 1294},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1294, got.OverallScore)

	rec.ID = uuid.NewString()
	rec.OverallScore = -1
	assert.Error(t, repo.Save(ctx, rec), "negative scores are still rejected")
}

func TestMatchRepository_SaveResult(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewMatchRepository(testDB)

	businessID := "it-" + uuid.NewString()
	result := &models.MatchResult{
		Kind: models.OpportunityKindFunding,
		Matches: []models.RankedMatch{
			{Rank: 1, Kind: models.OpportunityKindFunding, OpportunityID: "a", EligibilityScore: 90,
				Analysis: &models.MatchAnalysis{Score: 95, RiskLevel: models.RiskLow}},
			{Rank: 2, Kind: models.OpportunityKindFunding, OpportunityID: "b", EligibilityScore: 40},
		},
	}
	inserted, failed, err := repo.SaveResult(ctx, businessID, result)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, failed)

	stored, err := repo.ListByBusinessID(ctx, businessID, models.OpportunityKindFunding, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.RiskLow, stored[0].RiskLevel)
	require.NotNil(t, stored[0].Analysis)
	assert.Equal(t, 95, stored[0].Analysis.Score)
	assert.Nil(t, stored[1].Analysis)
}
