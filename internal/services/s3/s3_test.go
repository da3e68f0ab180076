package s3service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"business-fundability-engine/internal/models"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.CopySource)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://put/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://get/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
}

func TestArchiveReport(t *testing.T) {
	store := newFakeS3()
	svc := newService(store, fakePresigner{}, "catalog", "reports-bucket", zaptest.NewLogger(t))

	report := &models.AssessmentReport{
		ID:         "a1",
		BusinessID: "biz-1",
		Result:     models.ScoringResult{OverallScore: 640, Grade: models.GradeC},
		CreatedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	url, err := svc.ArchiveReport(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "https://get/reports-bucket/reports/biz-1/a1.json", url)

	raw, ok := store.objects["reports-bucket/reports/biz-1/a1.json"]
	require.True(t, ok)
	var decoded models.AssessmentReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 640, decoded.Result.OverallScore)
}

func TestArchiveReport_NoBucket(t *testing.T) {
	svc := newService(newFakeS3(), fakePresigner{}, "catalog", "", nil)
	_, err := svc.ArchiveReport(context.Background(), &models.AssessmentReport{ID: "a"})
	assert.ErrorIs(t, err, ErrReportBucketNotConfigured)
}

func TestArchiveReport_UploadFailure(t *testing.T) {
	store := newFakeS3()
	store.putErr = errors.New("access denied")
	svc := newService(store, fakePresigner{}, "catalog", "reports-bucket", nil)

	_, err := svc.ArchiveReport(context.Background(), &models.AssessmentReport{ID: "a", BusinessID: "b"})
	assert.ErrorContains(t, err, "access denied")
}

func TestGeneratePresignedUploadURL(t *testing.T) {
	svc := newService(newFakeS3(), fakePresigner{}, "catalog", "", nil)

	res, err := svc.GeneratePresignedUploadURL(context.Background(), "imports/lenders.csv", "text/csv", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://put/catalog/imports/lenders.csv", res.URL)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.ExpiresAt, time.Minute)
}

func TestDownloadAndMarkProcessed(t *testing.T) {
	store := newFakeS3()
	store.objects["catalog/imports/lenders.csv"] = []byte("lender_name\n")
	svc := newService(store, fakePresigner{}, "catalog", "", nil)
	ctx := context.Background()

	data, err := svc.DownloadFile(ctx, "catalog", "imports/lenders.csv")
	require.NoError(t, err)
	assert.Equal(t, "lender_name\n", string(data))

	dest, err := svc.MarkImportProcessed(ctx, "catalog", "imports/lenders.csv")
	require.NoError(t, err)
	assert.Equal(t, "imports/processed/lenders.csv", dest)
	assert.Contains(t, store.objects, "catalog/imports/processed/lenders.csv")
	assert.NotContains(t, store.objects, "catalog/imports/lenders.csv")

	_, err = svc.DownloadFile(ctx, "catalog", "missing.csv")
	assert.Error(t, err)
}
