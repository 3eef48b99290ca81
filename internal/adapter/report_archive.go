package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ReportArchive stores a rendered report and returns where it was written.
type ReportArchive interface {
	Archive(ctx context.Context, orderID, content string) (string, error)
}

// S3PutObjectAPI is the subset of the S3 client used by S3ReportArchive.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ReportArchive writes reports to an S3 bucket under reports/<date>/<orderID>.md.
type S3ReportArchive struct {
	client S3PutObjectAPI
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewS3ReportArchive creates an archive backed by bucket.
func NewS3ReportArchive(client S3PutObjectAPI, bucket string, logger *zap.Logger) *S3ReportArchive {
	return &S3ReportArchive{client: client, bucket: bucket, logger: logger, now: time.Now}
}

// Archive uploads content and returns its s3:// location.
func (a *S3ReportArchive) Archive(ctx context.Context, orderID, content string) (string, error) {
	key := fmt.Sprintf("reports/%s/%s.md", a.now().UTC().Format("2006-01-02"), orderID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/markdown; charset=utf-8"),
		Metadata:    map[string]string{"order-id": orderID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	a.logger.Info("report archived", zap.String("order_id", orderID), zap.String("location", location))
	return location, nil
}

// NopReportArchive is used when no bucket is configured.
type NopReportArchive struct{}

// Archive does nothing and returns an empty location.
func (NopReportArchive) Archive(context.Context, string, string) (string, error) { return "", nil }
