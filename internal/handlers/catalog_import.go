package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/utils"
)

const maxReportedErrors = 10

// ImportFiles reads uploaded catalog files and marks them processed.
type ImportFiles interface {
	DownloadFile(ctx context.Context, bucket, key string) ([]byte, error)
	MarkImportProcessed(ctx context.Context, bucket, key string) (string, error)
}

// FundingImporter stores imported funding products.
type FundingImporter interface {
	BulkUpsertFunding(ctx context.Context, opps []*models.FundingOpportunity) (*models.ImportResult, error)
}

// CatalogImportHandler loads lender CSVs dropped into the catalog bucket.
type CatalogImportHandler struct {
	files    ImportFiles
	importer FundingImporter
	logger   *zap.Logger
}

// NewCatalogImportHandler creates a new catalog import handler.
func NewCatalogImportHandler(files ImportFiles, importer FundingImporter, logger *zap.Logger) *CatalogImportHandler {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &CatalogImportHandler{files: files, importer: importer, logger: logger}
}

// Handle imports every CSV named in the S3 event. A file that cannot be read
// fails the invocation so Lambda retries it; bad rows are only reported.
func (h *CatalogImportHandler) Handle(ctx context.Context, s3Event events.S3Event) ([]models.ImportResult, error) {
	results := make([]models.ImportResult, 0, len(s3Event.Records))

	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return results, fmt.Errorf("failed to decode S3 key: %w", err)
		}

		if strings.HasPrefix(key, "imports/processed/") || !strings.HasSuffix(strings.ToLower(key), ".csv") {
			h.logger.Debug("Skipping object", zap.String("key", key))
			continue
		}

		result, err := h.importFile(ctx, bucket, key)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}

	return results, nil
}

func (h *CatalogImportHandler) importFile(ctx context.Context, bucket, key string) (*models.ImportResult, error) {
	h.logger.Info("Importing catalog file",
		zap.String("bucket", bucket),
		zap.String("key", key))

	content, err := h.files.DownloadFile(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog CSV: %w", err)
	}

	importID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(bucket+"/"+key)).String()
	opps, parseErrors := utils.NewCSVParser().ParseFundingOpportunities(string(content))

	result := &models.ImportResult{ImportID: importID, Errors: []string{}}
	if len(opps) > 0 {
		stored, err := h.importer.BulkUpsertFunding(ctx, opps)
		if err != nil {
			return nil, fmt.Errorf("failed to store catalog rows: %w", err)
		}
		result.InsertedCount = stored.InsertedCount
		result.FailedCount = stored.FailedCount
		result.Errors = append(result.Errors, stored.Errors...)
	}

	for _, e := range parseErrors {
		result.Errors = append(result.Errors, e.Error())
	}
	result.FailedCount += len(parseErrors)
	if len(result.Errors) > maxReportedErrors {
		result.Errors = result.Errors[:maxReportedErrors]
	}

	if _, err := h.files.MarkImportProcessed(ctx, bucket, key); err != nil {
		h.logger.Warn("Failed to archive imported file", zap.String("key", key), zap.Error(err))
	}

	h.logger.Info("Catalog import finished",
		zap.String("import_id", importID),
		zap.Int("inserted", result.InsertedCount),
		zap.Int("failed", result.FailedCount))

	return result, nil
}
