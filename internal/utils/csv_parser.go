package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"business-fundability-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
	ErrInvalidRowData = errors.New("invalid row data")
)

// RequiredColumns defines the columns that must be present in the CSV.
var RequiredColumns = []string{
	"lender_name",
	"product_name",
	"funding_type",
	"amount_min",
	"amount_max",
	"min_credit_score",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// lender_name aliases
	"lender":        "lender_name",
	"lendername":    "lender_name",
	"provider":      "lender_name",
	"provider_name": "lender_name",
	"bank":          "lender_name",

	// product_name aliases
	"product":     "product_name",
	"productname": "product_name",
	"name":        "product_name",

	// funding_type aliases
	"type":         "funding_type",
	"fundingtype":  "funding_type",
	"product_type": "funding_type",
	"loan_type":    "funding_type",

	// amount aliases
	"min_amount":     "amount_min",
	"minimum_amount": "amount_min",
	"loan_min":       "amount_min",
	"max_amount":     "amount_max",
	"maximum_amount": "amount_max",
	"loan_max":       "amount_max",

	// term aliases
	"min_term":          "term_min_months",
	"term_min":          "term_min_months",
	"max_term":          "term_max_months",
	"term_max":          "term_max_months",
	"min_rate":          "rate_min",
	"max_rate":          "rate_max",
	"interest_rate_min": "rate_min",
	"interest_rate_max": "rate_max",

	// qualification aliases
	"credit_score":           "min_credit_score",
	"min_fico":               "min_credit_score",
	"minimum_credit_score":   "min_credit_score",
	"min_time_in_business":   "min_time_in_business_months",
	"min_months_in_business": "min_time_in_business_months",
	"min_years_in_business":  "min_time_in_business_months", // Will multiply by 12
	"years_in_business":      "min_time_in_business_months",
	"min_revenue":            "min_annual_revenue",
	"annual_revenue":         "min_annual_revenue",
	"minimum_revenue":        "min_annual_revenue",
	"restricted":             "restricted_industries",
	"excluded_industries":    "restricted_industries",
	"origination_fee":        "origination_fee_percent",
	"fee_percent":            "origination_fee_percent",
	"speed":                  "approval_time",
	"time_to_fund":           "approval_time",

	// listing status aliases
	"active":  "is_active",
	"status":  "is_active",
	"enabled": "is_active",
}

// CSVParser handles parsing of funding catalog CSV files.
type CSVParser struct {
	columnMapping   map[string]int
	originalHeaders map[string]string // Maps normalized column name to original header
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping:   make(map[string]int),
		originalHeaders: make(map[string]string),
	}
}

// ParseFundingOpportunities parses CSV content into funding catalog entries.
// Rows that fail to parse are reported and skipped.
func (p *CSVParser) ParseFundingOpportunities(content string) ([]*models.FundingOpportunity, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	// Build column mapping
	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	// Parse data rows
	var opportunities []*models.FundingOpportunity
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		opp, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w: %w", lineNum, ErrInvalidRowData, err))
			continue
		}

		if err := models.ValidateFundingOpportunity(opp); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		opportunities = append(opportunities, opp)
	}

	if len(opportunities) == 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return opportunities, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)
	p.originalHeaders = make(map[string]string)

	for i, col := range header {
		normalized := normalizeHeader(col)
		original := normalized

		// Apply alias if exists
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}

		p.columnMapping[normalized] = i
		p.originalHeaders[normalized] = original
	}

	// Check for required columns
	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a FundingOpportunity.
func (p *CSVParser) parseRow(record []string) (*models.FundingOpportunity, error) {
	value := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	opp := &models.FundingOpportunity{
		ID:                   value("id"),
		LenderName:           value("lender_name"),
		ProductName:          value("product_name"),
		FundingType:          models.NormalizeFundingType(value("funding_type")),
		RestrictedIndustries: splitList(value("restricted_industries")),
		Features:             splitList(value("features")),
		ApprovalTime:         value("approval_time"),
		IsActive:             true,
	}
	if opp.ID == "" {
		opp.ID = models.OpportunityID(opp.LenderName, opp.ProductName)
	}

	var err error
	if raw := value("is_active"); raw != "" {
		if opp.IsActive, err = parseActive(raw); err != nil {
			return nil, fmt.Errorf("invalid is_active: %w", err)
		}
	}
	if opp.AmountMin, err = parseFloat(value("amount_min")); err != nil {
		return nil, fmt.Errorf("invalid amount_min: %w", err)
	}
	if opp.AmountMax, err = parseFloat(value("amount_max")); err != nil {
		return nil, fmt.Errorf("invalid amount_max: %w", err)
	}
	if opp.MinCreditScore, err = parseInt(value("min_credit_score")); err != nil {
		return nil, fmt.Errorf("invalid min_credit_score: %w", err)
	}

	optionalFloats := []struct {
		column string
		dst    *float64
	}{
		{"rate_min", &opp.RateMin},
		{"rate_max", &opp.RateMax},
		{"min_annual_revenue", &opp.MinAnnualRevenue},
		{"origination_fee_percent", &opp.OriginationFeePercent},
	}
	for _, f := range optionalFloats {
		if raw := value(f.column); raw != "" {
			v, err := parseFloat(strings.TrimSuffix(raw, "%"))
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", f.column, err)
			}
			*f.dst = v
		}
	}

	optionalInts := []struct {
		column string
		dst    *int
	}{
		{"term_min_months", &opp.TermMinMonths},
		{"term_max_months", &opp.TermMaxMonths},
	}
	for _, f := range optionalInts {
		if raw := value(f.column); raw != "" {
			v, err := parseInt(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", f.column, err)
			}
			*f.dst = v
		}
	}

	if raw := value("min_time_in_business_months"); raw != "" {
		months, err := parseFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid min_time_in_business_months: %w", err)
		}
		// Check if the original column was in years - if so, convert to months
		if strings.Contains(p.originalHeaders["min_time_in_business_months"], "years") {
			months *= 12
		}
		opp.MinTimeInBusinessMonths = int(math.Round(months))
	}

	return opp, nil
}

func normalizeHeader(col string) string {
	col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	return strings.Join(strings.FieldsFunc(col, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// splitList splits a multi-value cell on semicolons or pipes.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseActive reads a listing status cell. A blank cell keeps the listing live.
func parseActive(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "active", "live":
		return true, nil
	case "false", "f", "no", "n", "0", "inactive", "retired", "paused":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized status %q", s)
}

// parseFloat parses a string to float64, handling common formats.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove commas and currency symbols
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	return strconv.ParseFloat(s, 64)
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove commas
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Handle float strings (e.g., "680.0")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Valid:          false,
		RowCount:       0,
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	// Normalize and check columns
	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalized := normalizeHeader(col)
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		normalizedColumns[normalized] = true
		result.Columns = append(result.Columns, col)
	}

	// Check for required columns
	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	// Count rows
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
