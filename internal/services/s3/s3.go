// Package s3service archives assessment reports and stages catalog imports in S3.
package s3service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appConfig "business-fundability-engine/internal/config"
	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/utils"
)

const (
	reportPrefix          = "reports"
	processedImportPrefix = "imports/processed"
	defaultExpiryMinutes  = 15
)

// ErrReportBucketNotConfigured is returned when archiving is disabled.
var ErrReportBucketNotConfigured = errors.New("report bucket is not configured")

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Service handles S3 operations for the catalog and report buckets.
type Service struct {
	client        objectAPI
	presigner     presignAPI
	catalogBucket string
	reportBucket  string
	logger        *zap.Logger
}

// PresignedURLResult contains the presigned URL details
type PresignedURLResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService creates a new S3 service
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return newService(client, s3.NewPresignClient(client), appCfg.S3Bucket, appCfg.ReportBucket, utils.GetLogger()), nil
}

func newService(client objectAPI, presigner presignAPI, catalogBucket, reportBucket string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:        client,
		presigner:     presigner,
		catalogBucket: catalogBucket,
		reportBucket:  reportBucket,
		logger:        logger,
	}
}

// ReportKey is the object key of an archived assessment report.
func ReportKey(businessID, assessmentID string) string {
	return path.Join(reportPrefix, businessID, assessmentID+".json")
}

// ArchiveReport uploads the report as JSON and returns a time-limited
// download URL for it.
func (s *Service) ArchiveReport(ctx context.Context, report *models.AssessmentReport) (string, error) {
	if s.reportBucket == "" {
		return "", ErrReportBucketNotConfigured
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := ReportKey(report.BusinessID, report.ID)
	if err := s.upload(ctx, s.reportBucket, key, data, "application/json"); err != nil {
		return "", err
	}

	presigned, err := s.presignGet(ctx, s.reportBucket, key, 24*60)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// GeneratePresignedUploadURL creates a presigned URL for uploading a catalog CSV.
func (s *Service) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiryMinutes int) (*PresignedURLResult, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = defaultExpiryMinutes
	}
	expiry := time.Duration(expiryMinutes) * time.Minute

	presignedReq, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.catalogBucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		s.logger.Error("Failed to generate presigned URL",
			zap.String("bucket", s.catalogBucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.Info("Generated presigned upload URL",
		zap.String("bucket", s.catalogBucket),
		zap.String("key", key),
		zap.Int("expiry_minutes", expiryMinutes),
	)

	return &PresignedURLResult{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// GenerateReportDownloadURL creates a presigned URL for an archived report.
func (s *Service) GenerateReportDownloadURL(ctx context.Context, businessID, assessmentID string, expiryMinutes int) (*PresignedURLResult, error) {
	if s.reportBucket == "" {
		return nil, ErrReportBucketNotConfigured
	}
	return s.presignGet(ctx, s.reportBucket, ReportKey(businessID, assessmentID), expiryMinutes)
}

func (s *Service) presignGet(ctx context.Context, bucket, key string, expiryMinutes int) (*PresignedURLResult, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = defaultExpiryMinutes
	}
	expiry := time.Duration(expiryMinutes) * time.Minute

	presignedReq, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURLResult{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// DownloadFile downloads an object, typically a catalog CSV named by an S3 event.
func (s *Service) DownloadFile(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to download file from S3",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	s.logger.Info("Downloaded file from S3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return data, nil
}

func (s *Service) upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("Failed to upload file to S3",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Info("Uploaded file to S3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return nil
}

// MarkImportProcessed moves an imported CSV under the processed prefix so it
// is not imported twice.
func (s *Service) MarkImportProcessed(ctx context.Context, bucket, key string) (string, error) {
	destKey := path.Join(processedImportPrefix, path.Base(key))

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", bucket, key)),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return "", fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Info("Moved processed import",
		zap.String("source", key),
		zap.String("destination", destKey),
	)
	return destKey, nil
}
